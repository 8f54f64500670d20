// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func relocEntry(offset uint16, typ ImageBaseRelocationEntryType) []byte {
	data := uint16(typ)<<12 | (offset & 0x0FFF)
	return []byte{byte(data), byte(data >> 8)}
}

func TestRelocationsTwoBlocks(t *testing.T) {
	const relocVA = 0x5000

	var block1 []byte
	block1 = append(block1, le32(0x1000)...) // VirtualAddress
	entries1 := [][]byte{
		relocEntry(0x010, ImageRelBasedHighLow),
		relocEntry(0x020, ImageRelBasedDir64),
		relocEntry(0, ImageRelBasedAbsolute), // padding entry
	}
	size1 := uint32(sizeOfImageBaseRelocation + 2*len(entries1))
	block1 = append(block1, le32(size1)...)
	for _, e := range entries1 {
		block1 = append(block1, e...)
	}

	var block2 []byte
	block2 = append(block2, le32(0x2000)...)
	entries2 := [][]byte{
		relocEntry(0x004, ImageRelBasedDir64),
	}
	size2 := uint32(sizeOfImageBaseRelocation + 2*len(entries2))
	block2 = append(block2, le32(size2)...)
	for _, e := range entries2 {
		block2 = append(block2, e...)
	}

	reloc := append(block1, block2...)

	buf := newPEBuilder(true).
		addSection(".reloc", relocVA, reloc).
		setDataDirectory(ImageDirectoryEntryBaseReloc, relocVA, uint32(len(reloc))).
		build()
	img := newTestFileImage(t, buf)

	var blocks []RelocationBlock[FileOffset]
	cursor := img.Relocations()
	for {
		p, ok := cursor.Next()
		if !ok {
			break
		}
		blocks = append(blocks, p.Value)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Header.VirtualAddress != 0x1000 || blocks[0].Header.SizeOfBlock != size1 {
		t.Errorf("block[0].Header = %+v", blocks[0].Header)
	}
	if blocks[1].Header.VirtualAddress != 0x2000 || blocks[1].Header.SizeOfBlock != size2 {
		t.Errorf("block[1].Header = %+v", blocks[1].Header)
	}

	var got []ImageBaseRelocationEntry
	for {
		p, ok := blocks[0].Entries.Next()
		if !ok {
			break
		}
		got = append(got, p.Value)
	}
	if len(got) != 3 {
		t.Fatalf("block[0] entries = %d, want 3", len(got))
	}
	if got[0].Offset != 0x010 || got[0].Type != ImageRelBasedHighLow {
		t.Errorf("entries[0] = %+v", got[0])
	}
	if got[1].Offset != 0x020 || got[1].Type != ImageRelBasedDir64 {
		t.Errorf("entries[1] = %+v", got[1])
	}
}

func TestRelocationsAbsent(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	cursor := img.Relocations()
	if _, ok := cursor.Next(); ok {
		t.Errorf("Relocations: expected empty cursor with no BASERELOC directory")
	}
}

func TestImageBaseRelocationEntryTypeString(t *testing.T) {
	tests := []struct {
		in      ImageBaseRelocationEntryType
		machine uint16
		out     string
	}{
		{ImageRelBasedHighLow, ImageFileMachineI386, "HighLow"},
		{ImageRelBasedDir64, ImageFileMachineAMD64, "DIR64"},
		{ImageRelBasedARMMov32, ImageFileMachineARM, "ARM MOV 32"},
		{ImageRelBasedMIPSJmpAddr, ImageFileMachineMIPS16, "MIPS JMP Addr"},
		{ImageBaseRelocationEntryType(0xFF), ImageFileMachineI386, "?"},
	}
	for _, tt := range tests {
		if got := tt.in.String(tt.machine); got != tt.out {
			t.Errorf("String(machine=0x%x) on type %d = %q, want %q", tt.machine, tt.in, got, tt.out)
		}
	}
}
