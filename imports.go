// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	imageOrdinalFlag32  = uint64(0x80000000)
	imageOrdinalFlag64  = uint64(0x8000000000000000)
	addressMask32       = uint64(0x7fffffff)
	addressMask64       = uint64(0x7fffffffffffffff)
	maxImportNameLength = 0x200
)

// ImageImportDescriptor is one entry of the import directory table, naming
// one DLL the image imports from. The table is terminated by an all-zero
// descriptor.
type ImageImportDescriptor struct {
	OriginalFirstThunk uint32 `json:"original_first_thunk"`
	TimeDateStamp      uint32 `json:"time_date_stamp"`
	ForwarderChain     uint32 `json:"forwarder_chain"`
	Name               uint32 `json:"name"`
	FirstThunk         uint32 `json:"first_thunk"`
}

const sizeOfImageImportDescriptor = 20

func (d ImageImportDescriptor) isZero() bool { return d == ImageImportDescriptor{} }

// ImportDescriptors returns a cursor over the import directory. It yields
// a descriptor per iteration and stops at the all-zero terminator; it
// never starts a descriptor at or past the directory's own declared end.
//
// Unlike every other optional directory, an absent or undersized import
// directory is not collapsed into "this image imports nothing" - it is
// reported as ErrInvalidImportDirectory instead, so callers cannot
// mistake a corrupt or missing import table for a genuinely import-free
// image.
func (img *Image[N]) ImportDescriptors() (Cursor[N, ImageImportDescriptor], error) {
	begin, size, ok := img.tableBounds(int(ImageDirectoryEntryImport))
	if !ok || size < sizeOfImageImportDescriptor {
		return absentCursor[N, ImageImportDescriptor](), ErrInvalidImportDirectory
	}
	end := addN(begin, int64(size))
	decode := func(s ByteStore, off N) (ImageImportDescriptor, int64, bool) {
		var d ImageImportDescriptor
		if !unpack(s, off, sizeOfImageImportDescriptor, &d) {
			return ImageImportDescriptor{}, 0, false
		}
		return d, sizeOfImageImportDescriptor, true
	}
	return newCursor(img.store, begin, end, true, ImageImportDescriptor.isZero, decode), nil
}

// Thunk is one slot of an import lookup table (ILT) or import address
// table (IAT), normalized to 64 bits regardless of Image.Is64 - only the
// bits the image actually writes (32 or 64) are ever set.
type Thunk struct {
	AddressOfData uint64
}

// ByOrdinal reports whether this thunk names its import by ordinal rather
// than by hint/name.
func (t Thunk) ByOrdinal(is64 bool) bool {
	if is64 {
		return t.AddressOfData&imageOrdinalFlag64 != 0
	}
	return uint32(t.AddressOfData)&uint32(imageOrdinalFlag32) != 0
}

// Ordinal returns the imported ordinal; only meaningful when ByOrdinal is true.
func (t Thunk) Ordinal() uint16 { return uint16(t.AddressOfData & 0xFFFF) }

// HintNameRVA returns the RVA of the IMAGE_IMPORT_BY_NAME record; only
// meaningful when ByOrdinal is false.
func (t Thunk) HintNameRVA(is64 bool) uint32 {
	if is64 {
		return uint32(t.AddressOfData & addressMask64)
	}
	return uint32(t.AddressOfData) & uint32(addressMask32)
}

func (t Thunk) isZero() bool { return t.AddressOfData == 0 }

// Thunks returns a cursor over a zero-terminated thunk array (either the
// ILT, from descriptor.OriginalFirstThunk, or the IAT, from
// descriptor.FirstThunk) rooted at rva.
func (img *Image[N]) Thunks(rva uint32) Cursor[N, Thunk] {
	if rva == 0 {
		return absentCursor[N, Thunk]()
	}
	begin, ok := rvaToOffset[N](rva, img.sections)
	if !ok {
		return absentCursor[N, Thunk]()
	}
	is64 := img.is64
	decode := func(s ByteStore, off N) (Thunk, int64, bool) {
		if is64 {
			raw, ok := readAt(s, off, 8)
			if !ok {
				return Thunk{}, 0, false
			}
			var v uint64
			for i := 7; i >= 0; i-- {
				v = v<<8 | uint64(raw[i])
			}
			return Thunk{AddressOfData: v}, 8, true
		}
		raw, ok := readAt(s, off, 4)
		if !ok {
			return Thunk{}, 0, false
		}
		v := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
		return Thunk{AddressOfData: uint64(v)}, 4, true
	}
	return newCursor[N, Thunk](img.store, begin, begin, false, Thunk.isZero, decode)
}

// ImportedName reads the IMAGE_IMPORT_BY_NAME record at the RVA named by a
// non-ordinal thunk: a 2-byte hint followed by a NUL-terminated name.
func (img *Image[N]) ImportedName(rva uint32) (name string, hint uint16, ok bool) {
	off, ok := rvaToOffset[N](rva, img.sections)
	if !ok {
		return "", 0, false
	}
	raw, ok := readAt(img.store, off, 2)
	if !ok {
		return "", 0, false
	}
	hint = uint16(raw[0]) | uint16(raw[1])<<8
	name, ok = img.ReadCString(addN(off, 2), maxImportNameLength)
	return name, hint, ok
}

// DelayImportDescriptor is one entry of the DELAYIMPORT directory - the
// same "name a DLL, point at an ILT-like and IAT-like table" shape as
// ImageImportDescriptor, except the pre-2000 ("old") form stores absolute
// VAs instead of RVAs when Attributes is zero.
type DelayImportDescriptor struct {
	Attributes                 uint32 `json:"attributes"`
	Name                       uint32 `json:"name"`
	ModuleHandleRVA            uint32 `json:"module_handle_rva"`
	ImportAddressTableRVA      uint32 `json:"import_address_table_rva"`
	ImportNameTableRVA         uint32 `json:"import_name_table_rva"`
	BoundImportAddressTableRVA uint32 `json:"bound_import_address_table_rva"`
	UnloadInformationTableRVA  uint32 `json:"unload_information_table_rva"`
	TimeDateStamp              uint32 `json:"time_date_stamp"`
}

const sizeOfDelayImportDescriptor = 32

func (d DelayImportDescriptor) isZero() bool { return d == DelayImportDescriptor{} }

// IsOldForm reports whether this descriptor predates the RVA-based layout
// (Attributes == 0 means every address field is an absolute VA).
func (d DelayImportDescriptor) IsOldForm() bool { return d.Attributes == 0 }

// DelayImportDescriptors returns a cursor over the DELAYIMPORT directory,
// sentinel-terminated the same way as ImportDescriptors.
func (img *Image[N]) DelayImportDescriptors() Cursor[N, DelayImportDescriptor] {
	begin, size, ok := img.tableBounds(int(ImageDirectoryEntryDelayImport))
	if !ok {
		return absentCursor[N, DelayImportDescriptor]()
	}
	end := addN(begin, int64(size))
	decode := func(s ByteStore, off N) (DelayImportDescriptor, int64, bool) {
		var d DelayImportDescriptor
		if !unpack(s, off, sizeOfDelayImportDescriptor, &d) {
			return DelayImportDescriptor{}, 0, false
		}
		return d, sizeOfDelayImportDescriptor, true
	}
	return newCursor(img.store, begin, end, true, DelayImportDescriptor.isZero, decode)
}

func md5hash(text string) string {
	h := md5.New()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// ImpHash computes the import hash: for every imported DLL, the lowercased
// base name plus every imported function or ordinal name, joined and
// hashed with MD5. Draining every import/thunk cursor to build the string
// defeats the purpose of lazy access for callers who only need this one
// summary value, but the hash is inherently a function of the whole table
// so there is no partial, lazy way to produce it.
func (img *Image[N]) ImpHash() (string, bool) {
	var impStrs []string
	descs, err := img.ImportDescriptors()
	if err != nil {
		return "", false
	}
	for {
		d, ok := descs.Next()
		if !ok {
			break
		}
		dllName, ok := img.ReadCString(mustOffset[N](img, d.Value.Name), 0x200)
		if !ok {
			continue
		}
		libName := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(
			strings.ToLower(dllName), ".dll"), ".ocx"), ".sys")

		thunks := img.Thunks(d.Value.OriginalFirstThunk)
		if d.Value.OriginalFirstThunk == 0 {
			thunks = img.Thunks(d.Value.FirstThunk)
		}
		for {
			t, ok := thunks.Next()
			if !ok {
				break
			}
			var funcName string
			if t.Value.ByOrdinal(img.is64) {
				funcName = "ord" + strconv.Itoa(int(t.Value.Ordinal()))
			} else {
				name, _, ok := img.ImportedName(t.Value.HintNameRVA(img.is64))
				if !ok {
					continue
				}
				funcName = name
			}
			impStrs = append(impStrs, fmt.Sprintf("%s.%s", libName, strings.ToLower(funcName)))
		}
	}
	if len(impStrs) == 0 {
		return "", false
	}
	return md5hash(strings.Join(impStrs, ",")), true
}

// mustOffset lifts an RVA to N, returning the zero offset if translation
// fails - used only where a failed translation should read as an empty
// string rather than abort the whole traversal.
func mustOffset[N offset](img *Image[N], rva uint32) N {
	off, ok := rvaToOffset[N](rva, img.sections)
	if !ok {
		var zero N
		return zero
	}
	return off
}
