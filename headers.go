// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// ImageDOSHeader represents the DOS stub of a PE. Every PE file begins with
// a small MS-DOS stub; the only fields this package relies on are Magic
// and AddressOfNewEXEHeader, the offset of the NT headers.
type ImageDOSHeader struct {
	Magic                    uint16    `json:"magic"`
	BytesOnLastPageOfFile    uint16    `json:"bytes_on_last_page_of_file"`
	PagesInFile              uint16    `json:"pages_in_file"`
	Relocations              uint16    `json:"relocations"`
	SizeOfHeader             uint16    `json:"size_of_header"`
	MinExtraParagraphsNeeded uint16    `json:"min_extra_paragraphs_needed"`
	MaxExtraParagraphsNeeded uint16    `json:"max_extra_paragraphs_needed"`
	InitialSS                uint16    `json:"initial_ss"`
	InitialSP                uint16    `json:"initial_sp"`
	Checksum                 uint16    `json:"checksum"`
	InitialIP                uint16    `json:"initial_ip"`
	InitialCS                uint16    `json:"initial_cs"`
	AddressOfRelocationTable uint16    `json:"address_of_relocation_table"`
	OverlayNumber            uint16    `json:"overlay_number"`
	ReservedWords1           [4]uint16 `json:"reserved_words_1"`
	OEMIdentifier            uint16    `json:"oem_identifier"`
	OEMInformation           uint16    `json:"oem_information"`
	ReservedWords2           [10]uint16 `json:"reserved_words_2"`
	AddressOfNewEXEHeader    uint32    `json:"address_of_new_exe_header"`
}

// sizeOfDOSHeader is binary.Size(ImageDOSHeader{}); kept as a constant
// instead of computed via reflection since the struct has no padding and
// never changes shape.
const sizeOfDOSHeader = 64

// ImageFileHeader is the COFF header, common to PE images and object
// files, describing the physical layout of what follows.
type ImageFileHeader struct {
	Machine              uint16 `json:"machine"`
	NumberOfSections     uint16 `json:"number_of_sections"`
	TimeDateStamp        uint32 `json:"time_date_stamp"`
	PointerToSymbolTable uint32 `json:"pointer_to_symbol_table"`
	NumberOfSymbols      uint32 `json:"number_of_symbols"`
	SizeOfOptionalHeader uint16 `json:"size_of_optional_header"`
	Characteristics      uint16 `json:"characteristics"`
}

const sizeOfFileHeader = 20

// DataDirectory is one of the 16 fixed entries describing the RVA and size
// of a table or string the rest of the decoders key off.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

const sizeOfDataDirectory = 8

// ImageOptionalHeader32 is the PE32 optional header.
type ImageOptionalHeader32 struct {
	Magic                       uint16            `json:"magic"`
	MajorLinkerVersion          uint8             `json:"major_linker_version"`
	MinorLinkerVersion          uint8             `json:"minor_linker_version"`
	SizeOfCode                  uint32            `json:"size_of_code"`
	SizeOfInitializedData       uint32            `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32            `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32            `json:"address_of_entrypoint"`
	BaseOfCode                  uint32            `json:"base_of_code"`
	BaseOfData                  uint32            `json:"base_of_data"`
	ImageBase                   uint32            `json:"image_base"`
	SectionAlignment            uint32            `json:"section_alignment"`
	FileAlignment                uint32            `json:"file_alignment"`
	MajorOperatingSystemVersion uint16            `json:"major_os_version"`
	MinorOperatingSystemVersion uint16            `json:"minor_os_version"`
	MajorImageVersion           uint16            `json:"major_image_version"`
	MinorImageVersion           uint16            `json:"minor_image_version"`
	MajorSubsystemVersion       uint16            `json:"major_subsystem_version"`
	MinorSubsystemVersion       uint16            `json:"minor_subsystem_version"`
	Win32VersionValue           uint32            `json:"win32_version_value"`
	SizeOfImage                 uint32            `json:"size_of_image"`
	SizeOfHeaders                uint32            `json:"size_of_headers"`
	CheckSum                     uint32            `json:"checksum"`
	Subsystem                    uint16            `json:"subsystem"`
	DllCharacteristics            uint16            `json:"dll_characteristics"`
	SizeOfStackReserve           uint32            `json:"size_of_stack_reserve"`
	SizeOfStackCommit             uint32            `json:"size_of_stack_commit"`
	SizeOfHeapReserve             uint32            `json:"size_of_heap_reserve"`
	SizeOfHeapCommit             uint32            `json:"size_of_heap_commit"`
	LoaderFlags                   uint32            `json:"loader_flags"`
	NumberOfRvaAndSizes            uint32            `json:"number_of_rva_and_sizes"`
	DataDirectory                [16]DataDirectory `json:"data_directories"`
}

const sizeOfOptionalHeader32 = 224

// ImageOptionalHeader64 is the PE32+ optional header.
type ImageOptionalHeader64 struct {
	Magic                       uint16            `json:"magic"`
	MajorLinkerVersion          uint8             `json:"major_linker_version"`
	MinorLinkerVersion          uint8             `json:"minor_linker_version"`
	SizeOfCode                  uint32            `json:"size_of_code"`
	SizeOfInitializedData       uint32            `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32            `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32            `json:"address_of_entrypoint"`
	BaseOfCode                  uint32            `json:"base_of_code"`
	ImageBase                   uint64            `json:"image_base"`
	SectionAlignment             uint32            `json:"section_alignment"`
	FileAlignment                uint32            `json:"file_alignment"`
	MajorOperatingSystemVersion uint16            `json:"major_os_version"`
	MinorOperatingSystemVersion uint16            `json:"minor_os_version"`
	MajorImageVersion           uint16            `json:"major_image_version"`
	MinorImageVersion           uint16            `json:"minor_image_version"`
	MajorSubsystemVersion       uint16            `json:"major_subsystem_version"`
	MinorSubsystemVersion       uint16            `json:"minor_subsystem_version"`
	Win32VersionValue           uint32            `json:"win32_version_value"`
	SizeOfImage                 uint32            `json:"size_of_image"`
	SizeOfHeaders                uint32            `json:"size_of_headers"`
	CheckSum                     uint32            `json:"checksum"`
	Subsystem                    uint16            `json:"subsystem"`
	DllCharacteristics            uint16            `json:"dll_characteristics"`
	SizeOfStackReserve           uint64            `json:"size_of_stack_reserve"`
	SizeOfStackCommit             uint64            `json:"size_of_stack_commit"`
	SizeOfHeapReserve             uint64            `json:"size_of_heap_reserve"`
	SizeOfHeapCommit             uint64            `json:"size_of_heap_commit"`
	LoaderFlags                   uint32            `json:"loader_flags"`
	NumberOfRvaAndSizes            uint32            `json:"number_of_rva_and_sizes"`
	DataDirectory                [16]DataDirectory `json:"data_directories"`
}

const sizeOfOptionalHeader64 = 240

// OptionalHeader is implemented by both ImageOptionalHeader32 and
// ImageOptionalHeader64, so callers that only need the fields common to
// both (entry point, data directories, subsystem) don't need to branch on
// Image.Is64 themselves. This mirrors a runtime Is64 bool flag rather than
// a bit-width type parameter: only the table-cursor axis and the
// file/virtual offset flavour axis pull their weight as generics here.
type OptionalHeader interface {
	EntryPointRVA() uint32
	ImageBaseValue() uint64
	SubsystemValue() uint16
	DataDirectoryAt(i int) DataDirectory
}

func (h ImageOptionalHeader32) EntryPointRVA() uint32  { return h.AddressOfEntryPoint }
func (h ImageOptionalHeader32) ImageBaseValue() uint64 { return uint64(h.ImageBase) }
func (h ImageOptionalHeader32) SubsystemValue() uint16 { return h.Subsystem }
func (h ImageOptionalHeader32) DataDirectoryAt(i int) DataDirectory {
	if i < 0 || i >= len(h.DataDirectory) {
		return DataDirectory{}
	}
	return h.DataDirectory[i]
}

func (h ImageOptionalHeader64) EntryPointRVA() uint32  { return h.AddressOfEntryPoint }
func (h ImageOptionalHeader64) ImageBaseValue() uint64 { return h.ImageBase }
func (h ImageOptionalHeader64) SubsystemValue() uint16 { return h.Subsystem }
func (h ImageOptionalHeader64) DataDirectoryAt(i int) DataDirectory {
	if i < 0 || i >= len(h.DataDirectory) {
		return DataDirectory{}
	}
	return h.DataDirectory[i]
}

// ImageNtHeader is the PE header proper: the PE00 signature, the COFF file
// header, and the (32 or 64-bit) optional header.
type ImageNtHeader struct {
	Signature      uint32         `json:"signature"`
	FileHeader     ImageFileHeader `json:"file_header"`
	OptionalHeader OptionalHeader `json:"optional_header"`
}

// ImageSectionHeader is one row of the section table, immediately
// following the optional header; there are FileHeader.NumberOfSections of
// them, each 40 bytes with no padding.
type ImageSectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

const sizeOfSectionHeader = 40

// NameString returns the section name with trailing NUL padding stripped.
func (s ImageSectionHeader) NameString() string {
	n := 0
	for n < len(s.Name) && s.Name[n] != 0 {
		n++
	}
	return string(s.Name[:n])
}
