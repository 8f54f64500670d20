// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

// testFileAlignment is the raw-data alignment this builder uses for every
// section; real linkers default to 0x200 as well.
const testFileAlignment = 0x200

// testSection is one section this builder will place in the image, in both
// its virtual and raw (file) address spaces.
type testSection struct {
	name            string
	vaddr           uint32
	data            []byte
	characteristics uint32
}

// peBuilder assembles a minimal, syntactically valid PE/COFF byte buffer for
// exercising a single directory or table in isolation, without depending on
// any on-disk fixture file.
type peBuilder struct {
	is64            bool
	machine         uint16
	characteristics uint16
	timeDateStamp   uint32
	entryPoint      uint32
	imageBase       uint64
	sections        []testSection
	dataDirs        [16]DataDirectory
	numberOfSymbols uint32
	pointerToSymtab uint32
	// extra is raw content appended after the last section, used for data
	// that lives outside any declared section (e.g. a COFF symbol table).
	extra []byte
	// dosStub, when set, replaces the default all-zero DOS stub region
	// (sized by lfanew) verbatim - used to splice in a hand-built rich
	// header. Its length must equal lfanew.
	dosStub []byte
	lfanew  uint32

	// rawOffsets and extraRawOffset are filled in by build(), recording
	// where each section's raw data (and the trailing extra blob) actually
	// landed in the file - needed by callers that must point a directory
	// at a raw file offset rather than an RVA (e.g. BOUND_IMPORT).
	rawOffsets     []uint32
	extraRawOffset uint32
}

// rawOffsetOf returns the file offset addSection's i'th section's raw data
// was placed at; valid only after build() has run.
func (b *peBuilder) rawOffsetOf(i int) uint32 { return b.rawOffsets[i] }

// extraOffset returns the file offset setExtra's payload was placed at;
// valid only after build() has run.
func (b *peBuilder) extraOffset() uint32 { return b.extraRawOffset }

func newPEBuilder(is64 bool) *peBuilder {
	return &peBuilder{
		is64:            is64,
		machine:         ImageFileMachineI386,
		characteristics: 0x0102, // EXECUTABLE_IMAGE | 32BIT_MACHINE
		imageBase:       0x400000,
		lfanew:          0x80,
	}
}

// setDOSStub overrides the DOS stub region with raw bytes already carrying
// their own e_lfanew; its length becomes the image's lfanew.
func (b *peBuilder) setDOSStub(stub []byte) *peBuilder {
	b.dosStub = stub
	b.lfanew = uint32(len(stub))
	return b
}

func (b *peBuilder) addSection(name string, vaddr uint32, data []byte) *peBuilder {
	b.sections = append(b.sections, testSection{name: name, vaddr: vaddr, data: data, characteristics: 0xC0000040})
	return b
}

func (b *peBuilder) setDataDirectory(entry ImageDirectoryEntry, vaddr, size uint32) *peBuilder {
	b.dataDirs[entry] = DataDirectory{VirtualAddress: vaddr, Size: size}
	return b
}

func (b *peBuilder) setExtra(raw []byte) *peBuilder {
	b.extra = raw
	return b
}

func (b *peBuilder) setCOFFSymbolTable(pointerToSymtab, numberOfSymbols uint32) *peBuilder {
	b.pointerToSymtab = pointerToSymtab
	b.numberOfSymbols = numberOfSymbols
	return b
}

func align(v, to uint32) uint32 {
	if v%to == 0 {
		return v
	}
	return v + (to - v%to)
}

func le16(v uint16) []byte { p := make([]byte, 2); binary.LittleEndian.PutUint16(p, v); return p }
func le32(v uint32) []byte { p := make([]byte, 4); binary.LittleEndian.PutUint32(p, v); return p }
func le64(v uint64) []byte { p := make([]byte, 8); binary.LittleEndian.PutUint64(p, v); return p }

// build lays out a DOS stub, NT headers, section table and raw section data
// sequentially and returns the completed image. The file offset each
// section's data landed at (indexed the same as b.sections) is recorded in
// b.rawOffsets, and the extra blob's in b.extraRawOffset.
func (b *peBuilder) build() []byte {
	elfanew := b.lfanew

	var dos []byte
	if b.dosStub != nil {
		dos = append([]byte(nil), b.dosStub...)
	} else {
		dos = make([]byte, elfanew)
		binary.LittleEndian.PutUint16(dos[0:2], ImageDOSSignature)
		binary.LittleEndian.PutUint32(dos[0x3c:0x40], elfanew)
	}

	optSize := sizeOfOptionalHeader32
	if b.is64 {
		optSize = sizeOfOptionalHeader64
	}
	headerLen := int(elfanew) + 4 + sizeOfFileHeader + optSize + sizeOfSectionHeader*len(b.sections)
	headerLenAligned := align(uint32(headerLen), testFileAlignment)

	var buf []byte
	buf = append(buf, dos...)
	buf = append(buf, le32(ImageNTSignature)...)

	fh := make([]byte, sizeOfFileHeader)
	binary.LittleEndian.PutUint16(fh[0:2], b.machine)
	binary.LittleEndian.PutUint16(fh[2:4], uint16(len(b.sections)))
	binary.LittleEndian.PutUint32(fh[4:8], b.timeDateStamp)
	binary.LittleEndian.PutUint32(fh[8:12], b.pointerToSymtab)
	binary.LittleEndian.PutUint32(fh[12:16], b.numberOfSymbols)
	binary.LittleEndian.PutUint16(fh[16:18], uint16(optSize))
	binary.LittleEndian.PutUint16(fh[18:20], b.characteristics)
	buf = append(buf, fh...)

	buf = append(buf, b.buildOptionalHeader()...)

	// Raw data for each section starts right after the header block, each
	// aligned up to testFileAlignment.
	rawOffsets := make([]uint32, len(b.sections))
	cursor := headerLenAligned
	for i, s := range b.sections {
		rawOffsets[i] = cursor
		cursor += align(uint32(len(s.data)), testFileAlignment)
	}
	extraOffset := cursor
	cursor += uint32(len(b.extra))
	b.rawOffsets = rawOffsets
	b.extraRawOffset = extraOffset

	for i, s := range b.sections {
		sh := make([]byte, sizeOfSectionHeader)
		name := s.name
		if len(name) > 8 {
			name = name[:8]
		}
		copy(sh[0:8], name)
		binary.LittleEndian.PutUint32(sh[8:12], uint32(len(s.data)))
		binary.LittleEndian.PutUint32(sh[12:16], s.vaddr)
		binary.LittleEndian.PutUint32(sh[16:20], align(uint32(len(s.data)), testFileAlignment))
		binary.LittleEndian.PutUint32(sh[20:24], rawOffsets[i])
		binary.LittleEndian.PutUint32(sh[36:40], s.characteristics)
		buf = append(buf, sh...)
	}

	for len(buf) < int(headerLenAligned) {
		buf = append(buf, 0)
	}
	for i, s := range b.sections {
		for uint32(len(buf)) < rawOffsets[i] {
			buf = append(buf, 0)
		}
		buf = append(buf, s.data...)
	}
	if len(b.extra) > 0 {
		for uint32(len(buf)) < extraOffset {
			buf = append(buf, 0)
		}
		buf = append(buf, b.extra...)
	}
	_ = cursor
	return buf
}

func (b *peBuilder) buildOptionalHeader() []byte {
	if b.is64 {
		h := make([]byte, sizeOfOptionalHeader64)
		binary.LittleEndian.PutUint16(h[0:2], ImageNtOptionalHeader64Magic)
		binary.LittleEndian.PutUint32(h[16:20], b.entryPoint)
		binary.LittleEndian.PutUint64(h[24:32], b.imageBase)
		binary.LittleEndian.PutUint32(h[32:36], 0x1000) // SectionAlignment
		binary.LittleEndian.PutUint32(h[36:40], testFileAlignment)
		binary.LittleEndian.PutUint32(h[108:112], 16) // NumberOfRvaAndSizes
		ddBase := 112
		for i, dd := range b.dataDirs {
			off := ddBase + i*8
			binary.LittleEndian.PutUint32(h[off:off+4], dd.VirtualAddress)
			binary.LittleEndian.PutUint32(h[off+4:off+8], dd.Size)
		}
		return h
	}
	h := make([]byte, sizeOfOptionalHeader32)
	binary.LittleEndian.PutUint16(h[0:2], ImageNtOptionalHeader32Magic)
	binary.LittleEndian.PutUint32(h[16:20], b.entryPoint)
	binary.LittleEndian.PutUint32(h[28:32], uint32(b.imageBase))
	binary.LittleEndian.PutUint32(h[32:36], 0x1000) // SectionAlignment
	binary.LittleEndian.PutUint32(h[36:40], testFileAlignment)
	binary.LittleEndian.PutUint32(h[92:96], 16) // NumberOfRvaAndSizes
	ddBase := 96
	for i, dd := range b.dataDirs {
		off := ddBase + i*8
		binary.LittleEndian.PutUint32(h[off:off+4], dd.VirtualAddress)
		binary.LittleEndian.PutUint32(h[off+4:off+8], dd.Size)
	}
	return h
}

// newTestFileImage builds a FileImage directly over an in-memory store,
// failing the test if the synthetic bytes don't parse.
func newTestFileImage(t interface{ Fatalf(string, ...interface{}) }, buf []byte) *FileImage {
	img, err := NewFileImage(NewMemoryStore(buf), Options{})
	if err != nil {
		t.Fatalf("NewFileImage: %v", err)
	}
	return img
}
