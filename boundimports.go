// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// maxBoundImportNameLength bounds a bound-import DLL name read, the same
// way maxImportNameLength bounds a regular import name read.
const maxBoundImportNameLength = 0x100

// ImageBoundImportDescriptor is one entry of the BOUND_IMPORT directory,
// naming a DLL this image was bound against at link time plus however many
// IMAGE_BOUND_FORWARDER_REF records trail it describing forwarded exports
// of that DLL. The table is terminated by an all-zero descriptor.
type ImageBoundImportDescriptor struct {
	// TimeDateStamp is copied from the export timestamp of the DLL this
	// image was bound against.
	TimeDateStamp uint32 `json:"time_date_stamp"`

	// OffsetModuleName is an offset, not an RVA: counted from the start of
	// the BOUND_IMPORT directory itself.
	OffsetModuleName uint16 `json:"offset_module_name"`

	NumberOfModuleForwarderRefs uint16 `json:"number_of_module_forwarder_refs"`
}

func (d ImageBoundImportDescriptor) isZero() bool { return d == ImageBoundImportDescriptor{} }

// ImageBoundForwardedRef is one IMAGE_BOUND_FORWARDER_REF trailing a bound
// import descriptor, naming a DLL the former DLL forwards exports to.
type ImageBoundForwardedRef struct {
	TimeDateStamp    uint32 `json:"time_date_stamp"`
	OffsetModuleName uint16 `json:"offset_module_name"`
	Reserved         uint16 `json:"reserved"`
}

const sizeOfImageBoundImportDescriptor = 8
const sizeOfImageBoundForwardedRef = 8

// BoundForwarder pairs an ImageBoundForwardedRef with the DLL name its
// OffsetModuleName resolves to.
type BoundForwarder struct {
	Struct ImageBoundForwardedRef `json:"struct"`
	Name   string                 `json:"name"`
}

// BoundImport pairs an ImageBoundImportDescriptor with its resolved DLL
// name and the forwarder refs trailing it.
type BoundImport struct {
	Struct     ImageBoundImportDescriptor `json:"struct"`
	Name       string                     `json:"name"`
	Forwarders []BoundForwarder           `json:"forwarders"`
}

// BoundImportDescriptors returns a cursor over the BOUND_IMPORT directory.
// Each element already carries its resolved name and forwarder refs, since
// both OffsetModuleName fields address relative to the directory's own
// start rather than through a separately-cursored table.
func (img *Image[N]) BoundImportDescriptors() Cursor[N, BoundImport] {
	dd, present := img.DataDirectory(int(ImageDirectoryEntryBoundImport))
	if !present {
		return absentCursor[N, BoundImport]()
	}
	begin, ok := rawFileOffsetToN(img, dd.VirtualAddress)
	if !ok {
		return absentCursor[N, BoundImport]()
	}
	end := addN(begin, int64(dd.Size))
	tableStart := begin

	decode := func(s ByteStore, off N) (BoundImport, int64, bool) {
		var d ImageBoundImportDescriptor
		if !unpack(s, off, sizeOfImageBoundImportDescriptor, &d) {
			return BoundImport{}, 0, false
		}
		if d.isZero() {
			return BoundImport{}, sizeOfImageBoundImportDescriptor, true
		}

		consumed := int64(sizeOfImageBoundImportDescriptor)
		refOff := addN(off, consumed)
		refs := make([]BoundForwarder, 0, d.NumberOfModuleForwarderRefs)
		for i := uint16(0); i < d.NumberOfModuleForwarderRefs; i++ {
			var ref ImageBoundForwardedRef
			if !unpack(s, refOff, sizeOfImageBoundForwardedRef, &ref) {
				break
			}
			name, _ := img.ReadCString(addN(tableStart, int64(ref.OffsetModuleName)), maxBoundImportNameLength)
			refs = append(refs, BoundForwarder{Struct: ref, Name: name})
			refOff = addN(refOff, sizeOfImageBoundForwardedRef)
			consumed += sizeOfImageBoundForwardedRef
		}

		name, _ := img.ReadCString(addN(tableStart, int64(d.OffsetModuleName)), maxBoundImportNameLength)
		return BoundImport{Struct: d, Name: name, Forwarders: refs}, consumed, true
	}

	isEnd := func(b BoundImport) bool { return b.Struct.isZero() }
	return newCursor(img.store, begin, end, true, isEnd, decode)
}
