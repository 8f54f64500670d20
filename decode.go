// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// readAt reads exactly n bytes starting at off, reporting ok=false on any
// short read - the store's short-read-means-EOF contract (store.go) is
// what every decoder in this package relies on instead of propagating
// io.ErrUnexpectedEOF.
func readAt[N offset](store ByteStore, off N, n int) ([]byte, bool) {
	if off.Value() < 0 || n <= 0 {
		return nil, n == 0
	}
	buf := make([]byte, n)
	if store.Read(off.Value(), buf) != n {
		return nil, false
	}
	return buf, true
}

// unpack reads size bytes at off and decodes them into out via a plain
// little-endian binary.Read. Every struct this package unpacks this way
// has a fixed, padding-free layout, so a single bytes.Reader round trip is
// enough - there is no variant-width field handled by this path.
func unpack[N offset, T any](store ByteStore, off N, size int, out *T) bool {
	buf, ok := readAt(store, off, size)
	if !ok {
		return false
	}
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, out) == nil
}

// offsetFromUint32 lifts a raw 32-bit address already known to be in N's
// own address space (a DOS/NT header field, never an RVA) into N.
func offsetFromUint32[N offset](v uint32) N {
	var zero N
	switch any(zero).(type) {
	case FileOffset:
		return any(FileOffset(v)).(N)
	case VirtualOffset:
		return any(VirtualOffset(v)).(N)
	}
	return zero
}

// rvaToOffset lifts an RVA (always a virtual address, regardless of which
// flavour of Image is decoding it) into N. For a VirtualImage this is the
// identity; for a FileImage it goes through the section table exactly the
// way ToFileOffset does, since a FileImage's store is addressed in file
// bytes and an RVA is meaningless there without translation.
func rvaToOffset[N offset](rva uint32, sections []ImageSectionHeader) (N, bool) {
	var zero N
	switch any(zero).(type) {
	case FileOffset:
		fo, ok := fileOffsetFromRVA(rva, sections)
		if !ok {
			return zero, false
		}
		return any(fo).(N), true
	case VirtualOffset:
		return any(VirtualOffset(rva)).(N), true
	}
	return zero, false
}

// fileOffsetFromRVA walks the section table the way Section.Contains/Data
// did in the eager parser: find the section whose virtual range contains
// rva and translate through its raw-data pointer. An RVA that falls before
// the first section is assumed to land in the header block, which is
// identity-mapped between the two address spaces.
func fileOffsetFromRVA(rva uint32, sections []ImageSectionHeader) (FileOffset, bool) {
	for _, s := range sections {
		size := s.VirtualSize
		if size == 0 {
			size = s.SizeOfRawData
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+size {
			delta := rva - s.VirtualAddress
			return FileOffset(int64(s.PointerToRawData) + int64(delta)), true
		}
	}
	if len(sections) == 0 || rva < sections[0].VirtualAddress {
		return FileOffset(int64(rva)), true
	}
	return 0, false
}

// rvaFromFileOffset is the inverse of fileOffsetFromRVA, used by
// Image.ToVirtualOffset.
func rvaFromFileOffset(off uint32, sections []ImageSectionHeader) (uint32, bool) {
	for _, s := range sections {
		if off >= s.PointerToRawData && off < s.PointerToRawData+s.SizeOfRawData {
			return s.VirtualAddress + (off - s.PointerToRawData), true
		}
	}
	if len(sections) == 0 || off < sections[0].PointerToRawData {
		return off, true
	}
	return 0, false
}

// rawFileOffsetToN lifts a raw address that is always a file offset -
// never an RVA, regardless of which Image flavour is decoding it - into N.
// The BOUND_IMPORT and CERTIFICATE directories' address fields and
// FileHeader.PointerToSymbolTable are the fields in the format with this
// property; all are nominally documented next to RVA-valued fields but none
// is ever translated
// through the section table the way a real RVA is. A FileImage uses the
// value as-is; a VirtualImage converts it through ToVirtualOffset, the
// reverse of the usual RVA->file direction.
func rawFileOffsetToN[N offset](img *Image[N], raw uint32) (N, bool) {
	var zero N
	switch any(zero).(type) {
	case FileOffset:
		return any(FileOffset(int64(raw))).(N), true
	case VirtualOffset:
		v, ok := img.ToVirtualOffset(FileOffset(int64(raw)))
		if !ok {
			return zero, false
		}
		return any(v).(N), true
	}
	return zero, false
}

// decodeUTF16LE decodes a little-endian UTF-16 byte slice (no BOM) to a Go
// string. A fresh decoder is built per call since x/text transformers are
// not safe to share across concurrent callers, and ByteStore.Read must be
// safe for concurrent use.
func decodeUTF16LE(b []byte) (string, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
