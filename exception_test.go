// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func buildRuntimeFunctionEntry(begin, end, unwindInfo uint32) []byte {
	b := make([]byte, sizeOfImageRuntimeFunctionEntry)
	copy(b[0:4], le32(begin))
	copy(b[4:8], le32(end))
	copy(b[8:12], le32(unwindInfo))
	return b
}

func TestRuntimeFunctionsNoTerminator(t *testing.T) {
	const sectionVA = 0x4000
	data := append(
		buildRuntimeFunctionEntry(0x1000, 0x1050, 0x6000),
		buildRuntimeFunctionEntry(0x1100, 0x1180, 0x6010)...,
	)

	buf := newPEBuilder(true).
		addSection(".pdata", sectionVA, data).
		setDataDirectory(ImageDirectoryEntryException, sectionVA, uint32(len(data))).
		build()
	img := newTestFileImage(t, buf)

	var fns []ImageRuntimeFunctionEntry
	cursor := img.RuntimeFunctions()
	for {
		p, ok := cursor.Next()
		if !ok {
			break
		}
		fns = append(fns, p.Value)
	}
	if len(fns) != 2 {
		t.Fatalf("got %d runtime functions, want 2", len(fns))
	}
	if fns[0].BeginAddress != 0x1000 || fns[0].EndAddress != 0x1050 || fns[0].UnwindInfoAddress != 0x6000 {
		t.Errorf("fns[0] = %+v", fns[0])
	}
	if fns[1].BeginAddress != 0x1100 || fns[1].EndAddress != 0x1180 || fns[1].UnwindInfoAddress != 0x6010 {
		t.Errorf("fns[1] = %+v", fns[1])
	}
}

func TestRuntimeFunctionsAbsent(t *testing.T) {
	buf := newPEBuilder(true).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.RuntimeFunctions().Next(); ok {
		t.Errorf("RuntimeFunctions: expected empty cursor with no exception directory")
	}
}

func packUnwindCode(codeOffset uint8, op UnwindOpType, opInfo uint8) []byte {
	uc := uint16(codeOffset) | uint16(op)<<8 | uint16(opInfo)<<12
	return le16(uc)
}

func TestUnwindInfoPushAndAllocSmall(t *testing.T) {
	const sectionVA = 0x6000

	// version=1, flags=0, sizeOfProlog=4, countOfCodes=2, frameRegister=0,
	// frameOffset raw nibble=0.
	header := uint32(1) | uint32(4)<<8 | uint32(2)<<16
	data := le32(header)
	data = append(data, packUnwindCode(4, UwOpPushNonVol, rbp)...)
	data = append(data, packUnwindCode(2, UwOpAllocSmall, 3)...)

	buf := newPEBuilder(true).
		addSection(".xdata", sectionVA, data).
		build()
	img := newTestFileImage(t, buf)

	ui, err := img.UnwindInfo(sectionVA)
	if err != nil {
		t.Fatalf("UnwindInfo: unexpected error %v", err)
	}
	if ui.Version != 1 || ui.Flags != 0 || ui.SizeOfProlog != 4 || ui.CountOfCodes != 2 || ui.FrameRegister != 0 || ui.FrameOffset != 0 {
		t.Errorf("ui = %+v", ui)
	}
	if len(ui.UnwindCodes) != 2 {
		t.Fatalf("got %d unwind codes, want 2", len(ui.UnwindCodes))
	}
	c0 := ui.UnwindCodes[0]
	if c0.CodeOffset != 4 || c0.UnwindOp != UwOpPushNonVol || c0.OpInfo != rbp || c0.Operand != "Register=RBP" {
		t.Errorf("code0 = %+v", c0)
	}
	c1 := ui.UnwindCodes[1]
	if c1.CodeOffset != 2 || c1.UnwindOp != UwOpAllocSmall || c1.OpInfo != 3 || c1.Operand != "Size=32" {
		t.Errorf("code1 = %+v", c1)
	}
}

func TestUnwindInfoExceptionHandler(t *testing.T) {
	const sectionVA = 0x6000

	header := uint32(1) | uint32(UnwFlagEHandler)<<3
	data := le32(header)
	data = append(data, le32(0x12345678)...)

	buf := newPEBuilder(true).
		addSection(".xdata", sectionVA, data).
		build()
	img := newTestFileImage(t, buf)

	ui, err := img.UnwindInfo(sectionVA)
	if err != nil {
		t.Fatalf("UnwindInfo: unexpected error %v", err)
	}
	if ui.Flags != UnwFlagEHandler {
		t.Errorf("Flags = 0x%x, want 0x%x", ui.Flags, UnwFlagEHandler)
	}
	if len(ui.UnwindCodes) != 0 {
		t.Errorf("UnwindCodes = %+v, want none", ui.UnwindCodes)
	}
	if ui.ExceptionHandler != 0x12345678 {
		t.Errorf("ExceptionHandler = 0x%x, want 0x12345678", ui.ExceptionHandler)
	}
}

func TestUnwindInfoErrorWhenRVAUnmapped(t *testing.T) {
	buf := newPEBuilder(true).build()
	img := newTestFileImage(t, buf)
	if _, err := img.UnwindInfo(0xdeadbeef); err != ErrInvalidUnwindOffset {
		t.Errorf("UnwindInfo: err = %v, want ErrInvalidUnwindOffset", err)
	}
}

func TestARMRuntimeFunctions(t *testing.T) {
	const sectionVA = 0x4000
	entry := make([]byte, sizeOfARMRuntimeFunctionEntry)
	copy(entry[0:4], le32(0x1000))
	copy(entry[4:8], le32(0x2008|1)) // Flag=1 (packed unwind data), ExceptionFlag=0x802

	buf := newPEBuilder(true).
		addSection(".pdata", sectionVA, entry).
		setDataDirectory(ImageDirectoryEntryException, sectionVA, uint32(len(entry))).
		build()
	img := newTestFileImage(t, buf)

	c := img.ARMRuntimeFunctions()
	p, ok := c.Next()
	if !ok {
		t.Fatalf("ARMRuntimeFunctions: expected one entry")
	}
	if p.Value.BeginAddress != 0x1000 {
		t.Errorf("BeginAddress = 0x%x, want 0x1000", p.Value.BeginAddress)
	}
	if p.Value.Flag != 1 {
		t.Errorf("Flag = %d, want 1", p.Value.Flag)
	}
	if _, ok := c.Next(); ok {
		t.Errorf("ARMRuntimeFunctions: expected one entry only")
	}
}

func TestScopeTableAt(t *testing.T) {
	const sectionVA = 0x7000
	data := le32(1) // Count
	rec := make([]byte, sizeOfScopeRecord)
	copy(rec[0:4], le32(0x10))
	copy(rec[4:8], le32(0x20))
	copy(rec[8:12], le32(0x30))
	copy(rec[12:16], le32(0x40))
	data = append(data, rec...)

	buf := newPEBuilder(true).
		addSection(".xdata", sectionVA, data).
		build()
	img := newTestFileImage(t, buf)

	st, err := img.ScopeTableAt(sectionVA)
	if err != nil {
		t.Fatalf("ScopeTableAt: unexpected error %v", err)
	}
	if st.Count != 1 || len(st.ScopeRecords) != 1 {
		t.Fatalf("ScopeTableAt = %+v", st)
	}
	r := st.ScopeRecords[0]
	if r.BeginAddress != 0x10 || r.EndAddress != 0x20 || r.HandlerAddress != 0x30 || r.JumpTarget != 0x40 {
		t.Errorf("ScopeRecord = %+v", r)
	}

	if _, err := img.ScopeTableAt(0xdeadbeef); err != ErrInvalidUnwindOffset {
		t.Errorf("ScopeTableAt(unmapped): err = %v, want ErrInvalidUnwindOffset", err)
	}
}

func TestPrettyUnwindInfoHandlerFlags(t *testing.T) {
	values := PrettyUnwindInfoHandlerFlags(UnwFlagEHandler | UnwFlagChainInfo)
	if len(values) != 2 {
		t.Fatalf("got %d flags, want 2: %v", len(values), values)
	}
	seen := map[string]bool{}
	for _, v := range values {
		seen[v] = true
	}
	if !seen["Exception"] || !seen["Chain"] {
		t.Errorf("PrettyUnwindInfoHandlerFlags = %v, want Exception and Chain", values)
	}
}

func TestUnwindOpTypeString(t *testing.T) {
	if got := UwOpPushNonVol.String(); got != "UWOP_PUSH_NONVOL" {
		t.Errorf("UwOpPushNonVol.String() = %q", got)
	}
	if got := UnwindOpType(99).String(); got != "?" {
		t.Errorf("UnwindOpType(99).String() = %q, want ?", got)
	}
}
