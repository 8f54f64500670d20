// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// ImageBaseRelocationEntryType is the kind of fixup a base relocation
// entry applies. Valid values depend on machine type.
type ImageBaseRelocationEntryType uint8

// Base relocation entry types.
const (
	ImageRelBasedAbsolute      = 0
	ImageRelBasedHigh          = 1
	ImageRelBasedLow           = 2
	ImageRelBasedHighLow       = 3
	ImageRelBasedHighAdj       = 4
	ImageRelBasedMIPSJmpAddr   = 5
	ImageRelBasedARMMov32      = 5
	ImageRelBasedRISCVHigh20   = 5
	ImageRelReserved           = 6
	ImageRelBasedThumbMov32    = 7
	ImageRelBasedRISCVLow12i   = 7
	ImageRelBasedRISCVLow12s   = 8
	ImageRelBasedMIPSJmpAddr16 = 9
	ImageRelBasedDir64         = 10
)

// ImageBaseRelocation heads one block ("page") of base relocation entries.
type ImageBaseRelocation struct {
	VirtualAddress uint32 `json:"virtual_address"`
	SizeOfBlock    uint32 `json:"size_of_block"`
}

const sizeOfImageBaseRelocation = 8

// ImageBaseRelocationEntry is one fixup within a relocation block. Offset
// is relative to the block's VirtualAddress, extracted from the low 12
// bits of the raw entry; Type occupies the high 4 bits.
type ImageBaseRelocationEntry struct {
	Type   ImageBaseRelocationEntryType `json:"type"`
	Offset uint16                       `json:"offset"`
}

// RelocationBlock pairs a decoded ImageBaseRelocation header with a cursor
// over its entries; the header is read eagerly (it is what bounds the
// entry cursor) but the entries themselves are pulled lazily.
type RelocationBlock[N offset] struct {
	Header  ImageBaseRelocation
	Entries Cursor[N, ImageBaseRelocationEntry]
}

// Relocations returns a cursor over the base relocation blocks named by
// the BASERELOC data directory. Each Next() call decodes one block header;
// callers then drain Entries before advancing, or skip it entirely to
// jump straight to the next block - walking the entries is optional.
func (img *Image[N]) Relocations() Cursor[N, RelocationBlock[N]] {
	begin, size, ok := img.tableBounds(int(ImageDirectoryEntryBaseReloc))
	if !ok {
		return absentCursor[N, RelocationBlock[N]]()
	}
	end := addN(begin, int64(size))
	store := img.store
	decode := func(s ByteStore, off N) (RelocationBlock[N], int64, bool) {
		var hdr ImageBaseRelocation
		if !unpack(s, off, sizeOfImageBaseRelocation, &hdr) {
			return RelocationBlock[N]{}, 0, false
		}
		if hdr.SizeOfBlock < sizeOfImageBaseRelocation {
			return RelocationBlock[N]{}, 0, false
		}
		entriesBegin := addN(off, sizeOfImageBaseRelocation)
		entriesEnd := addN(off, int64(hdr.SizeOfBlock))
		entryDecode := func(s ByteStore, off N) (ImageBaseRelocationEntry, int64, bool) {
			raw, ok := readAt(s, off, 2)
			if !ok {
				return ImageBaseRelocationEntry{}, 0, false
			}
			data := uint16(raw[0]) | uint16(raw[1])<<8
			return ImageBaseRelocationEntry{
				Offset: data & 0x0FFF,
				Type:   ImageBaseRelocationEntryType((data >> 12) & 0x000F),
			}, 2, true
		}
		block := RelocationBlock[N]{
			Header:  hdr,
			Entries: newCursor(s, entriesBegin, entriesEnd, true, nil, entryDecode),
		}
		return block, int64(hdr.SizeOfBlock), true
	}
	return newCursor(store, begin, end, true, nil, decode)
}

// String returns the human-readable name of a relocation entry type, given
// the image's machine (some type values are machine-specific aliases).
func (t ImageBaseRelocationEntryType) String(machineType uint16) string {
	names := map[ImageBaseRelocationEntryType]string{
		ImageRelBasedAbsolute:      "Absolute",
		ImageRelBasedHigh:          "High",
		ImageRelBasedLow:           "Low",
		ImageRelBasedHighLow:       "HighLow",
		ImageRelBasedHighAdj:       "HighAdj",
		ImageRelReserved:           "Reserved",
		ImageRelBasedRISCVLow12s:   "RISC-V Low12s",
		ImageRelBasedMIPSJmpAddr16: "MIPS Jmp Addr16",
		ImageRelBasedDir64:         "DIR64",
	}
	if v, ok := names[t]; ok {
		return v
	}
	switch machineType {
	case ImageFileMachineMIPS16, ImageFileMachineMIPSFPU, ImageFileMachineMIPSFPU16, ImageFileMachineWCEMIPSv2:
		if t == ImageRelBasedMIPSJmpAddr {
			return "MIPS JMP Addr"
		}
	case ImageFileMachineARM, ImageFileMachineARM64, ImageFileMachineARMNT:
		if t == ImageRelBasedARMMov32 {
			return "ARM MOV 32"
		}
		if t == ImageRelBasedThumbMov32 {
			return "Thumb MOV 32"
		}
	case ImageFileMachineRISCV32, ImageFileMachineRISCV64, ImageFileMachineRISCV128:
		if t == ImageRelBasedRISCVHigh20 {
			return "RISC-V High 20"
		}
		if t == ImageRelBasedRISCVLow12i {
			return "RISC-V Low 12"
		}
	}
	return "?"
}
