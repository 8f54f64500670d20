// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func buildDebugDirectoryEntry(typ ImageDebugDirectoryType, sizeOfData, pointerToRawData uint32) []byte {
	b := make([]byte, sizeOfImageDebugDirectory)
	copy(b[12:16], le32(uint32(typ)))
	copy(b[16:20], le32(sizeOfData))
	copy(b[24:28], le32(pointerToRawData))
	return b
}

// buildDebugPayloads lays out one payload per debug type this package
// decodes, recording the byte offset (within the returned blob) and size
// each payload landed at.
func buildDebugPayloads() (blob []byte, rsds, nb10, pogo, vcfeature, repro, fpo, exdll struct{ off, size uint32 }) {
	// CodeView RSDS (PDB 7.0): signature, GUID, age, NUL-terminated name.
	rsdsName := append([]byte("a.pdb"), 0)
	rsdsBuf := make([]byte, 24+len(rsdsName))
	copy(rsdsBuf[0:4], le32(CVSignatureRSDS))
	copy(rsdsBuf[4:8], le32(0x112233))                                          // GUID.Data1
	copy(rsdsBuf[8:10], le16(0x4455))                                           // GUID.Data2
	copy(rsdsBuf[10:12], le16(0x6677))                                          // GUID.Data3
	copy(rsdsBuf[12:20], []byte{0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}) // GUID.Data4
	copy(rsdsBuf[20:24], le32(7))                                               // Age
	copy(rsdsBuf[24:], rsdsName)
	rsds.off, rsds.size = 0, uint32(len(rsdsBuf))

	// CodeView NB10 (PDB 2.0): header, timestamp, age, NUL-terminated name.
	nb10Name := append([]byte("b.pdb"), 0)
	nb10Buf := make([]byte, 16+len(nb10Name))
	copy(nb10Buf[0:4], le32(CVSignatureNB10))
	copy(nb10Buf[4:8], le32(0)) // CVHeader.Offset
	copy(nb10Buf[8:12], le32(0xC0FFEE))
	copy(nb10Buf[12:16], le32(3))
	copy(nb10Buf[16:], nb10Name)
	nb10.off, nb10.size = rsds.off+rsds.size, uint32(len(nb10Buf))

	// POGO: signature, then one RVA+Size+name entry, NUL-terminated and
	// padded to a four byte boundary.
	pogoName := "abc"
	advance := 8 + uint32(len(pogoName)) + 1
	padding := (4 - advance%4) % 4
	pogoBuf := make([]byte, 4+advance+padding)
	copy(pogoBuf[0:4], le32(POGOTypePGU))
	copy(pogoBuf[4:8], le32(0x1000))
	copy(pogoBuf[8:12], le32(0x280))
	copy(pogoBuf[12:], append([]byte(pogoName), 0))
	pogo.off, pogo.size = nb10.off+nb10.size, uint32(len(pogoBuf))

	// VCFeature: five fixed uint32 counters.
	vcfBuf := make([]byte, 20)
	copy(vcfBuf[0:4], le32(1))
	copy(vcfBuf[4:8], le32(2))
	copy(vcfBuf[8:12], le32(3))
	copy(vcfBuf[12:16], le32(4))
	copy(vcfBuf[16:20], le32(5))
	vcfeature.off, vcfeature.size = pogo.off+pogo.size, uint32(len(vcfBuf))

	// Repro: size-prefixed build hash.
	hash := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	reproBuf := append(le32(uint32(len(hash))), hash...)
	repro.off, repro.size = vcfeature.off+vcfeature.size, uint32(len(reproBuf))

	// FPO: one 16-byte record, plus one trailing byte so the attributes
	// word (read two bytes starting at offset 15) has somewhere to land.
	fpoBuf := make([]byte, 17)
	copy(fpoBuf[0:4], le32(0x1000)) // OffsetStart
	copy(fpoBuf[4:8], le32(0x200))  // ProcSize
	copy(fpoBuf[8:12], le32(0x10))  // NumLocals
	copy(fpoBuf[12:14], le16(8))    // ParamsSize
	fpoBuf[14] = 6                  // PrologLength
	attrs := uint16(2) | uint16(1)<<3 | uint16(1)<<4 | uint16(0)<<5 | uint16(FrameNonFPO)<<6
	copy(fpoBuf[15:17], le16(attrs))
	fpo.off, fpo.size = repro.off+repro.size, uint32(len(fpoBuf))

	// Extended DLL characteristics: a single bit flag.
	exdllBuf := le32(ImageDllCharacteristicsExCETCompat)
	exdll.off, exdll.size = fpo.off+fpo.size, uint32(len(exdllBuf))

	blob = append(blob, rsdsBuf...)
	blob = append(blob, nb10Buf...)
	blob = append(blob, pogoBuf...)
	blob = append(blob, vcfBuf...)
	blob = append(blob, reproBuf...)
	blob = append(blob, fpoBuf...)
	blob = append(blob, exdllBuf...)
	return
}

func TestDebugDirectoriesAndPayloads(t *testing.T) {
	const sectionVA = 0x5000
	const numEntries = 7
	placeholder := make([]byte, numEntries*sizeOfImageDebugDirectory)

	payloads, rsds, nb10, pogo, vcfeature, repro, fpo, exdll := buildDebugPayloads()

	probe := newPEBuilder(false).addSection(".debug", sectionVA, placeholder).setExtra(payloads)
	probe.build()
	base := probe.extraOffset()

	var entries []byte
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeCodeView, rsds.size, base+rsds.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeCodeView, nb10.size, base+nb10.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypePOGO, pogo.size, base+pogo.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeVCFeature, vcfeature.size, base+vcfeature.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeRepro, repro.size, base+repro.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeFPO, 16, base+fpo.off)...)
	entries = append(entries, buildDebugDirectoryEntry(ImageDebugTypeExDllCharacteristics, exdll.size, base+exdll.off)...)
	if len(entries) != len(placeholder) {
		t.Fatalf("entries blob length = %d, want %d", len(entries), len(placeholder))
	}

	buf := newPEBuilder(false).
		addSection(".debug", sectionVA, entries).
		setExtra(payloads).
		setDataDirectory(ImageDirectoryEntryDebug, sectionVA, uint32(len(entries))).
		build()
	img := newTestFileImage(t, buf)

	var dirs []ImageDebugDirectory
	cursor := img.DebugDirectories()
	for {
		p, ok := cursor.Next()
		if !ok {
			break
		}
		dirs = append(dirs, p.Value)
	}
	if len(dirs) != numEntries {
		t.Fatalf("got %d debug directory entries, want %d", len(dirs), numEntries)
	}

	rsdsInfo, ok := img.DebugCodeView(dirs[0])
	if !ok {
		t.Fatalf("DebugCodeView(RSDS): not ok")
	}
	pdb70, ok := rsdsInfo.(*CVInfoPDB70)
	if !ok {
		t.Fatalf("DebugCodeView(RSDS) = %T, want *CVInfoPDB70", rsdsInfo)
	}
	if pdb70.CVSignature != CVSignatureRSDS || pdb70.Age != 7 || pdb70.PDBFileName != "a.pdb" {
		t.Errorf("pdb70 = %+v", pdb70)
	}
	wantGUID := "{00112233-4455-6677-8899-AABBCCDDEEFF}"
	if got := pdb70.Signature.String(); got != wantGUID {
		t.Errorf("GUID.String() = %q, want %q", got, wantGUID)
	}

	nb10Info, ok := img.DebugCodeView(dirs[1])
	if !ok {
		t.Fatalf("DebugCodeView(NB10): not ok")
	}
	pdb20, ok := nb10Info.(*CVInfoPDB20)
	if !ok {
		t.Fatalf("DebugCodeView(NB10) = %T, want *CVInfoPDB20", nb10Info)
	}
	if pdb20.CVHeader.Signature != CVSignatureNB10 || pdb20.Signature != 0xC0FFEE || pdb20.Age != 3 || pdb20.PDBFileName != "b.pdb" {
		t.Errorf("pdb20 = %+v", pdb20)
	}

	pogoInfo, ok := img.DebugPOGO(dirs[2])
	if !ok {
		t.Fatalf("DebugPOGO: not ok")
	}
	if pogoInfo.Signature.String() != "PGU" {
		t.Errorf("POGO signature = %q, want PGU", pogoInfo.Signature.String())
	}
	if len(pogoInfo.Entries) != 1 || pogoInfo.Entries[0].RVA != 0x1000 || pogoInfo.Entries[0].Size != 0x280 || pogoInfo.Entries[0].Name != "abc" {
		t.Errorf("POGO entries = %+v", pogoInfo.Entries)
	}

	vcf, ok := img.DebugVCFeature(dirs[3])
	if !ok {
		t.Fatalf("DebugVCFeature: not ok")
	}
	if vcf.PreVC11 != 1 || vcf.CCpp != 2 || vcf.Gs != 3 || vcf.Sdl != 4 || vcf.GuardN != 5 {
		t.Errorf("VCFeature = %+v", vcf)
	}

	rep, ok := img.DebugRepro(dirs[4])
	if !ok {
		t.Fatalf("DebugRepro: not ok")
	}
	if rep.Size != 4 || len(rep.Hash) != 4 || rep.Hash[0] != 0xAA {
		t.Errorf("REPRO = %+v", rep)
	}

	fpoData, ok := img.DebugFPO(dirs[5])
	if !ok {
		t.Fatalf("DebugFPO: not ok")
	}
	if len(fpoData) != 1 {
		t.Fatalf("got %d FPO entries, want 1", len(fpoData))
	}
	f := fpoData[0]
	if f.OffsetStart != 0x1000 || f.ProcSize != 0x200 || f.NumLocals != 0x10 || f.ParamsSize != 8 || f.PrologLength != 6 {
		t.Errorf("FPOData = %+v", f)
	}
	if f.SavedRegsCount != 2 || f.HasSEH != 1 || f.UseBP != 1 || f.Reserved != 0 {
		t.Errorf("FPOData bit fields = %+v", f)
	}
	if f.FrameType != FrameNonFPO || f.FrameType.String() != "Non FPO" {
		t.Errorf("FrameType = %v (%q), want Non FPO", f.FrameType, f.FrameType.String())
	}

	dllEx, ok := img.DebugExDllCharacteristics(dirs[6])
	if !ok {
		t.Fatalf("DebugExDllCharacteristics: not ok")
	}
	if dllEx != ImageDllCharacteristicsExCETCompat || dllEx.String() != "CET Compatible" {
		t.Errorf("DllCharacteristicsExType = %v (%q), want CET Compatible", dllEx, dllEx.String())
	}
}

func TestDebugDirectoriesAbsent(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.DebugDirectories().Next(); ok {
		t.Errorf("DebugDirectories: expected empty cursor with no debug directory")
	}
}

func TestDebugTypeMismatchReturnsFalse(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	entry := ImageDebugDirectory{Type: ImageDebugTypeMisc}
	if _, ok := img.DebugCodeView(entry); ok {
		t.Errorf("DebugCodeView: expected ok=false for mismatched entry type")
	}
	if _, ok := img.DebugPOGO(entry); ok {
		t.Errorf("DebugPOGO: expected ok=false for mismatched entry type")
	}
	if _, ok := img.DebugFPO(entry); ok {
		t.Errorf("DebugFPO: expected ok=false for mismatched entry type")
	}
}

func TestSectionAttributeDescription(t *testing.T) {
	if got := SectionAttributeDescription(".00cfg"); got != "CFG Check Functions Pointers" {
		t.Errorf("SectionAttributeDescription(.00cfg) = %q", got)
	}
	if got := SectionAttributeDescription(".nosuchsection"); got != "" {
		t.Errorf("SectionAttributeDescription(unknown) = %q, want empty", got)
	}
}
