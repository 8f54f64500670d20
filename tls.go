// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// TLSDirectoryCharacteristicsType represents the type of a TLS directory
// Characteristics.
type TLSDirectoryCharacteristicsType uint32

// TLSDirectory normalizes ImageTLSDirectory32/64 to a single shape with
// every address widened to uint64, the same pattern Thunk (imports.go) uses
// to erase the 32/64-bit split from callers that don't care about it.
type TLSDirectory struct {
	StartAddressOfRawData uint64                          `json:"start_address_of_raw_data"`
	EndAddressOfRawData   uint64                          `json:"end_address_of_raw_data"`
	AddressOfIndex        uint64                          `json:"address_of_index"`
	AddressOfCallBacks    uint64                          `json:"address_of_callbacks"`
	SizeOfZeroFill        uint32                          `json:"size_of_zero_fill"`
	Characteristics       TLSDirectoryCharacteristicsType `json:"characteristics"`
}

// Alignment extracts the section-alignment bits ([23:20]) packed into
// Characteristics; the remaining bits are reserved.
func (d TLSDirectory) Alignment() TLSDirectoryCharacteristicsType {
	return d.Characteristics & 0x00F00000
}

// ImageTLSDirectory32 represents the IMAGE_TLS_DIRECTORY32 structure.
// It Points to the Thread Local Storage initialization section.
type ImageTLSDirectory32 struct {

	// The starting address of the TLS template. The template is a block of data
	// that is used to initialize TLS data.
	StartAddressOfRawData uint32 `json:"start_address_of_raw_data"`

	// The address of the last byte of the TLS, except for the zero fill.
	// As with the Raw Data Start VA field, this is a VA, not an RVA.
	EndAddressOfRawData uint32 `json:"end_address_of_raw_data"`

	// The location to receive the TLS index, which the loader assigns. This
	// location is in an ordinary data section, so it can be given a symbolic
	// name that is accessible to the program.
	AddressOfIndex uint32 `json:"address_of_index"`

	// The pointer to an array of TLS callback functions. The array is
	// null-terminated, so if no callback function is supported, this field
	// points to 4 bytes set to zero.
	AddressOfCallBacks uint32 `json:"address_of_callbacks"`

	// The size in bytes of the template, beyond the initialized data delimited
	// by the Raw Data Start VA and Raw Data End VA fields. The total template
	// size should be the same as the total size of TLS data in the image file.
	// The zero fill is the amount of data that comes after the initialized
	// nonzero data.
	SizeOfZeroFill uint32 `json:"size_of_zero_fill"`

	// The four bits [23:20] describe alignment info. Possible values are those
	// defined as IMAGE_SCN_ALIGN_*, which are also used to describe alignment
	// of section in object files. The other 28 bits are reserved for future use.
	Characteristics TLSDirectoryCharacteristicsType `json:"characteristics"`
}

// ImageTLSDirectory64 represents the IMAGE_TLS_DIRECTORY64 structure.
// It Points to the Thread Local Storage initialization section.
type ImageTLSDirectory64 struct {
	// The starting address of the TLS template. The template is a block of data
	// that is used to initialize TLS data.
	StartAddressOfRawData uint64 `json:"start_address_of_raw_data"`

	// The address of the last byte of the TLS, except for the zero fill. As
	// with the Raw Data Start VA field, this is a VA, not an RVA.
	EndAddressOfRawData uint64 `json:"end_address_of_raw_data"`

	// The location to receive the TLS index, which the loader assigns. This
	// location is in an ordinary data section, so it can be given a symbolic
	// name that is accessible to the program.
	AddressOfIndex uint64 `json:"address_of_index"`

	// The pointer to an array of TLS callback functions. The array is
	// null-terminated, so if no callback function is supported, this field
	// points to 4 bytes set to zero.
	AddressOfCallBacks uint64 `json:"address_of_callbacks"`

	// The size in bytes of the template, beyond the initialized data delimited
	// by the Raw Data Start VA and Raw Data End VA fields. The total template
	// size should be the same as the total size of TLS data in the image file.
	// The zero fill is the amount of data that comes after the initialized
	// nonzero data.
	SizeOfZeroFill uint32 `json:"size_of_zero_fill"`

	// The four bits [23:20] describe alignment info. Possible values are those
	// defined as IMAGE_SCN_ALIGN_*, which are also used to describe alignment
	// of section in object files. The other 28 bits are reserved for future use.
	Characteristics TLSDirectoryCharacteristicsType `json:"characteristics"`
}

const sizeOfImageTLSDirectory32 = 24
const sizeOfImageTLSDirectory64 = 40

func (img *Image[N]) imageBase() uint64 {
	if img.is64 {
		return img.optHeader64.ImageBase
	}
	return uint64(img.optHeader32.ImageBase)
}

// TLSDirectory decodes the TLS directory, widening to the normalized
// TLSDirectory shape regardless of Image.Is64.
func (img *Image[N]) TLSDirectory() (TLSDirectory, bool) {
	begin, _, ok := img.tableBounds(int(ImageDirectoryEntryTLS))
	if !ok {
		return TLSDirectory{}, false
	}
	if img.is64 {
		var d ImageTLSDirectory64
		if !unpack(img.store, begin, sizeOfImageTLSDirectory64, &d) {
			return TLSDirectory{}, false
		}
		return TLSDirectory{
			StartAddressOfRawData: d.StartAddressOfRawData,
			EndAddressOfRawData:   d.EndAddressOfRawData,
			AddressOfIndex:        d.AddressOfIndex,
			AddressOfCallBacks:    d.AddressOfCallBacks,
			SizeOfZeroFill:        d.SizeOfZeroFill,
			Characteristics:       d.Characteristics,
		}, true
	}
	var d ImageTLSDirectory32
	if !unpack(img.store, begin, sizeOfImageTLSDirectory32, &d) {
		return TLSDirectory{}, false
	}
	return TLSDirectory{
		StartAddressOfRawData: uint64(d.StartAddressOfRawData),
		EndAddressOfRawData:   uint64(d.EndAddressOfRawData),
		AddressOfIndex:        uint64(d.AddressOfIndex),
		AddressOfCallBacks:    uint64(d.AddressOfCallBacks),
		SizeOfZeroFill:        d.SizeOfZeroFill,
		Characteristics:       d.Characteristics,
	}, true
}

// TLSCallbacks returns a cursor over the zero-terminated array of callback
// VAs named by dir.AddressOfCallBacks. The array itself, and every entry in
// it, is stored as an absolute VA rather than an RVA, so translating it
// requires the image base from the optional header this image already
// decoded. Some images carry this directory present with zero callbacks,
// which this returns as an empty cursor rather than an error.
func (img *Image[N]) TLSCallbacks(dir TLSDirectory) Cursor[N, uint64] {
	if dir.AddressOfCallBacks == 0 {
		return absentCursor[N, uint64]()
	}
	base := img.imageBase()
	if dir.AddressOfCallBacks < base {
		return absentCursor[N, uint64]()
	}
	rva := uint32(dir.AddressOfCallBacks - base)
	begin, ok := rvaToOffset[N](rva, img.sections)
	if !ok {
		return absentCursor[N, uint64]()
	}
	is64 := img.is64
	decode := func(s ByteStore, off N) (uint64, int64, bool) {
		if is64 {
			raw, ok := readAt(s, off, 8)
			if !ok {
				return 0, 0, false
			}
			var v uint64
			for i := 7; i >= 0; i-- {
				v = v<<8 | uint64(raw[i])
			}
			return v, 8, true
		}
		v, ok := readUint32At(s, off)
		if !ok {
			return 0, 0, false
		}
		return uint64(v), 4, true
	}
	isEnd := func(v uint64) bool { return v == 0 }
	return newCursor[N, uint64](img.store, begin, begin, false, isEnd, decode)
}

// String returns the string representations of the `Characteristics` field of
// TLS directory.
func (characteristics TLSDirectoryCharacteristicsType) String() string {

	m := map[TLSDirectoryCharacteristicsType]string{
		ImageScnAlign1Bytes:    "Align 1-Byte",
		ImageScnAlign2Bytes:    "Align 2-Bytes",
		ImageScnAlign4Bytes:    "Align 4-Bytes",
		ImageScnAlign8Bytes:    "Align 8-Bytes",
		ImageScnAlign16Bytes:   "Align 16-Bytes",
		ImageScnAlign32Bytes:   "Align 32-Bytes",
		ImageScnAlign64Bytes:   "Align 64-Bytes",
		ImageScnAlign128Bytes:  "Align 128-Bytes",
		ImageScnAlign256Bytes:  "Align 256-Bytes",
		ImageScnAlign512Bytes:  "Align 512-Bytes",
		ImageScnAlign1024Bytes: "Align 1024-Bytes",
		ImageScnAlign2048Bytes: "Align 2048-Bytes",
		ImageScnAlign4096Bytes: "Align 4096-Bytes",
		ImageScnAlign8192Bytes: "Align 8192-Bytes",
	}

	v, ok := m[characteristics]
	if ok {
		return v
	}

	return "?"
}
