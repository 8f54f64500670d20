// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"fmt"
)

// The following values are defined for the Type field of the debug directory entry:
const (
	// An unknown value that is ignored by all tools.
	ImageDebugTypeUnknown = 0

	// The COFF debug information (line numbers, symbol table, and string table).
	// This type of debug information is also pointed to by fields in the file headers.
	ImageDebugTypeCOFF = 1

	// The Visual C++ debug information.
	ImageDebugTypeCodeView = 2

	// The frame pointer omission (FPO) information. This information tells the
	// debugger how to interpret nonstandard stack frames, which use the EBP
	// register for a purpose other than as a frame pointer.
	ImageDebugTypeFPO = 3

	// The location of DBG file.
	ImageDebugTypeMisc = 4

	// A copy of .pdata section.
	ImageDebugTypeException = 5

	// Reserved.
	ImageDebugTypeFixup = 6

	// The mapping from an RVA in image to an RVA in source image.
	ImageDebugTypeOMAPToSrc = 7

	// The mapping from an RVA in source image to an RVA in image.
	ImageDebugTypeOMAPFromSrc = 8

	// Reserved for Borland.
	ImageDebugTypeBorland = 9

	// Reserved.
	ImageDebugTypeReserved = 10

	// Reserved.
	ImageDebugTypeCLSID = 11

	// Visual C++ features (/GS counts /sdl counts and guardN counts).
	ImageDebugTypeVCFeature = 12

	// Pogo aka PGO aka Profile Guided Optimization.
	ImageDebugTypePOGO = 13

	// Incremental Link Time Code Generation (iLTCG).
	ImageDebugTypeILTCG = 14

	// Intel MPX.
	ImageDebugTypeMPX = 15

	// PE determinism or reproducibility.
	ImageDebugTypeRepro = 16

	// Extended DLL characteristics bits.
	ImageDebugTypeExDllCharacteristics = 20
)

const (
	// CVSignatureRSDS represents the CodeView signature 'SDSR'.
	CVSignatureRSDS = 0x53445352

	// CVSignatureNB10 represents the CodeView signature 'NB10'.
	CVSignatureNB10 = 0x3031424e
)

const (
	// FrameFPO indicates a frame of type FPO.
	FrameFPO = 0x0

	// FrameTrap indicates a frame of type Trap.
	FrameTrap = 0x1

	// FrameTSS indicates a frame of type TSS.
	FrameTSS = 0x2

	// FrameNonFPO indicates a frame of type Non-FPO.
	FrameNonFPO = 0x3
)

// DllCharacteristicsExType represents a DLL Characteristics type.
type DllCharacteristicsExType uint32

const (
	// ImageDllCharacteristicsExCETCompat indicates that the image is CET
	// compatible.
	ImageDllCharacteristicsExCETCompat = 0x0001
)

const (
	// POGOTypePGU represents a signature for an undocumented PGO sub type.
	POGOTypePGU = 0x50475500
	// POGOTypePGI represents a signature for an undocumented PGO sub type.
	POGOTypePGI = 0x50474900
	// POGOTypePGO represents a signature for an undocumented PGO sub type.
	POGOTypePGO = 0x50474F00
	// POGOTypeLTCG represents a signature for an undocumented PGO sub type.
	POGOTypeLTCG = 0x4c544347
)

// ImageDebugDirectoryType represents the type of a debug directory.
type ImageDebugDirectoryType uint32

// ImageDebugDirectory represents the IMAGE_DEBUG_DIRECTORY structure.
// This directory indicates what form of debug information is present
// and where it is. This directory consists of an array of debug directory
// entries whose location and size are indicated in the image optional header.
type ImageDebugDirectory struct {
	// Reserved, must be 0.
	Characteristics uint32 `json:"characteristics"`

	// The time and date that the debug data was created.
	TimeDateStamp uint32 `json:"time_date_stamp"`

	// The major version number of the debug data format.
	MajorVersion uint16 `json:"major_version"`

	// The minor version number of the debug data format.
	MinorVersion uint16 `json:"minor_version"`

	// The format of debugging information. This field enables support of
	// multiple debuggers.
	Type ImageDebugDirectoryType `json:"type"`

	// The size of the debug data (not including the debug directory itself).
	SizeOfData uint32 `json:"size_of_data"`

	//The address of the debug data when loaded, relative to the image base.
	AddressOfRawData uint32 `json:"address_of_raw_data"`

	// The file pointer to the debug data.
	PointerToRawData uint32 `json:"pointer_to_raw_data"`
}

// DebugEntry wraps ImageDebugDirectory to include debug directory type.
type DebugEntry struct {
	// Points to the image debug entry structure.
	Struct ImageDebugDirectory `json:"struct"`

	// Holds specific information about the debug type entry.
	Info interface{} `json:"info"`

	// Type of the debug entry.
	Type string `json:"type"`
}

// GUID is a 128-bit value consisting of one group of 8 hexadecimal digits,
// followed by three groups of 4 hexadecimal digits each, followed by one
// group of 12 hexadecimal digits.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// CVSignature represents a CodeView signature.
type CVSignature uint32

// CVInfoPDB70 represents the the CodeView data block of a PDB 7.0 file.
type CVInfoPDB70 struct {
	// CodeView signature, equal to `RSDS`.
	CVSignature CVSignature `json:"cv_signature"`

	// A unique identifier, which changes with every rebuild of the executable and PDB file.
	Signature GUID `json:"signature"`

	// Ever-incrementing value, which is initially set to 1 and incremented every
	// time when a part of the PDB file is updated without rewriting the whole file.
	Age uint32 `json:"age"`

	// Null-terminated name of the PDB file. It can also contain full or partial
	// path to the file.
	PDBFileName string `json:"pdb_file_name"`
}

// CVHeader represents the the CodeView header struct to the PDB 2.0 file.
type CVHeader struct {
	// CodeView signature, equal to `NB10`.
	Signature CVSignature `json:"signature"`

	// CodeView offset. Set to 0, because debug information is stored in a
	// separate file.
	Offset uint32 `json:"offset"`
}

// CVInfoPDB20 represents the the CodeView data block of a PDB 2.0 file.
type CVInfoPDB20 struct {
	// Points to the CodeView header structure.
	CVHeader CVHeader `json:"cv_header"`

	// The time when debug information was created (in seconds since 01.01.1970).
	Signature uint32 `json:"signature"`

	// Ever-incrementing value, which is initially set to 1 and incremented every
	// time when a part of the PDB file is updated without rewriting the whole file.
	Age uint32 `json:"age"`

	// Null-terminated name of the PDB file. It can also contain full or partial
	// path to the file.
	PDBFileName string `json:"pdb_file_name"`
}

// FPOFrameType represents the type of a FPO frame.
type FPOFrameType uint8

// FPOData represents the stack frame layout for a function on an x86 computer when
// frame pointer omission (FPO) optimization is used. The structure is used to locate
// the base of the call frame.
type FPOData struct {
	// The offset of the first byte of the function code.
	OffsetStart uint32 `json:"offset_start"`

	// The number of bytes in the function.
	ProcSize uint32 `json:"proc_size"`

	// The number of local variables.
	NumLocals uint32 `json:"num_locals"`

	// The size of the parameters, in DWORDs.
	ParamsSize uint16 `json:"params_size"`

	// The number of bytes in the function prolog code.
	PrologLength uint8 `json:"prolog_length"`

	// The number of registers saved.
	SavedRegsCount uint8 `json:"saved_regs_count"`

	// A variable that indicates whether the function uses structured exception handling.
	HasSEH uint8 `json:"has_seh"`

	// A variable that indicates whether the EBP register has been allocated.
	UseBP uint8 `json:"use_bp"`

	// Reserved for future use.
	Reserved uint8 `json:"reserved"`

	// A variable that indicates the frame type.
	FrameType FPOFrameType `json:"frame_type"`
}

// ImagePGOItem represents the _IMAGE_POGO_INFO structure.
type ImagePGOItem struct {
	RVA  uint32 `json:"rva"`
	Size uint32 `json:"size"`
	Name string `json:"name"`
}

// POGOType represents a POGO type.
type POGOType uint32

// POGO structure contains information related to the Profile Guided Optimization.
// PGO is an approach to optimization where the compiler uses profile information
// to make better optimization decisions for the program.
type POGO struct {
	// Signature represents the PGO sub type.
	Signature POGOType       `json:"signature"`
	Entries   []ImagePGOItem `json:"entries"`
}

type VCFeature struct {
	PreVC11 uint32 `json:"pre_vc11"`
	CCpp    uint32 `json:"C/C++"`
	Gs      uint32 `json:"/GS"`
	Sdl     uint32 `json:"/sdl"`
	GuardN  uint32 `json:"guardN"`
}

type REPRO struct {
	Size uint32 `json:"size"`
	Hash []byte `json:"hash"`
}

// ImageDebugMisc represents the IMAGE_DEBUG_MISC structure.
type ImageDebugMisc struct {
	// The type of data carried in the `Data` field.
	DataType uint32 `json:"data_type"`

	// The length of this structure in bytes, including the entire Data field
	// and its NUL terminator (rounded to four byte multiple.)
	Length uint32 `json:"length"`

	// The encoding of the Data field. True if data is unicode string.
	Unicode bool `json:"unicode"`

	// Reserved.
	Reserved [3]byte `json:"reserved"`

	// Actual data.
	Data string `json:"data"`
}

const sizeOfImageDebugDirectory = 28

// DebugDirectories returns a cursor over the DEBUG directory's array of
// fixed-size ImageDebugDirectory entries. Type-specific payload (CodeView,
// POGO, FPO, ...) is decoded on demand by the DebugXxx accessors below,
// keyed off PointerToRawData/AddressOfRawData - walking the entry array
// itself never needs to touch that payload.
func (img *Image[N]) DebugDirectories() Cursor[N, ImageDebugDirectory] {
	begin, size, ok := img.tableBounds(int(ImageDirectoryEntryDebug))
	if !ok {
		return absentCursor[N, ImageDebugDirectory]()
	}
	end := addN(begin, int64(size))
	decode := func(s ByteStore, off N) (ImageDebugDirectory, int64, bool) {
		var d ImageDebugDirectory
		if !unpack(s, off, sizeOfImageDebugDirectory, &d) {
			return ImageDebugDirectory{}, 0, false
		}
		return d, sizeOfImageDebugDirectory, true
	}
	return newCursor(img.store, begin, end, true, nil, decode)
}

// debugDataOffset resolves the entry's own payload location in N's address
// space: PointerToRawData (a file offset) for a FileImage, AddressOfRawData
// (an RVA) translated through rvaToOffset for a VirtualImage - the two
// fields name the same bytes in the two address spaces.
func debugDataOffset[N offset](entry ImageDebugDirectory, sections []ImageSectionHeader) (N, bool) {
	var zero N
	switch any(zero).(type) {
	case FileOffset:
		return any(FileOffset(int64(entry.PointerToRawData))).(N), true
	case VirtualOffset:
		return rvaToOffset[N](entry.AddressOfRawData, sections)
	}
	return zero, false
}

// DebugCodeView decodes a CodeView (PDB) debug entry, returning either a
// *CVInfoPDB70 or a *CVInfoPDB20 depending on the embedded signature.
func (img *Image[N]) DebugCodeView(entry ImageDebugDirectory) (interface{}, bool) {
	if entry.Type != ImageDebugTypeCodeView {
		return nil, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return nil, false
	}
	sig, ok := readUint32At(img.store, begin)
	if !ok {
		return nil, false
	}

	switch sig {
	case CVSignatureRSDS:
		pdb := CVInfoPDB70{CVSignature: CVSignatureRSDS}
		if !unpack(img.store, addN(begin, 4), 16, &pdb.Signature) {
			return nil, false
		}
		pdb.Age, ok = readUint32At(img.store, addN(begin, 20))
		if !ok {
			return nil, false
		}
		if n := int(entry.SizeOfData) - 24 - 1; n > 0 {
			pdb.PDBFileName, _ = img.ReadCString(addN(begin, 24), n+1)
		}
		return &pdb, true
	case CVSignatureNB10:
		var hdr CVHeader
		if !unpack(img.store, begin, 8, &hdr) {
			return nil, false
		}
		pdb := CVInfoPDB20{CVHeader: hdr}
		var ok1, ok2 bool
		pdb.Signature, ok1 = readUint32At(img.store, addN(begin, 8))
		pdb.Age, ok2 = readUint32At(img.store, addN(begin, 12))
		if !ok1 || !ok2 {
			return nil, false
		}
		if n := int(entry.SizeOfData) - 16 - 1; n > 0 {
			pdb.PDBFileName, _ = img.ReadCString(addN(begin, 16), n+1)
		}
		return &pdb, true
	}
	return nil, false
}

// DebugPOGO decodes a POGO (profile-guided optimization) debug entry.
func (img *Image[N]) DebugPOGO(entry ImageDebugDirectory) (POGO, bool) {
	if entry.Type != ImageDebugTypePOGO {
		return POGO{}, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return POGO{}, false
	}
	sig, ok := readUint32At(img.store, begin)
	if !ok {
		return POGO{}, false
	}
	switch sig {
	case 0x0, POGOTypePGU, POGOTypePGI, POGOTypePGO, POGOTypeLTCG:
	default:
		return POGO{}, false
	}
	pogo := POGO{Signature: POGOType(sig)}
	cur := addN(begin, 4)
	c := uint32(0)
	for c < entry.SizeOfData-4 {
		var item ImagePGOItem
		var okRVA, okSize bool
		item.RVA, okRVA = readUint32At(img.store, cur)
		item.Size, okSize = readUint32At(img.store, addN(cur, 4))
		if !okRVA || !okSize {
			break
		}
		name, ok := img.ReadCString(addN(cur, 8), 64)
		if !ok {
			break
		}
		item.Name = name
		pogo.Entries = append(pogo.Entries, item)
		advance := 8 + uint32(len(name)) + 1
		padding := (4 - advance%4) % 4
		cur = addN(cur, int64(advance+padding))
		c += advance + padding
	}
	return pogo, true
}

// DebugVCFeature decodes a /GS, /sdl and guardN counters debug entry.
func (img *Image[N]) DebugVCFeature(entry ImageDebugDirectory) (VCFeature, bool) {
	if entry.Type != ImageDebugTypeVCFeature {
		return VCFeature{}, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return VCFeature{}, false
	}
	var vcf VCFeature
	if !unpack(img.store, begin, 20, &vcf) {
		return VCFeature{}, false
	}
	return vcf, true
}

// DebugRepro decodes a build-determinism hash debug entry.
func (img *Image[N]) DebugRepro(entry ImageDebugDirectory) (REPRO, bool) {
	if entry.Type != ImageDebugTypeRepro {
		return REPRO{}, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return REPRO{}, false
	}
	size, ok := readUint32At(img.store, begin)
	if !ok {
		return REPRO{}, false
	}
	hash, ok := readAt(img.store, addN(begin, 4), int(size))
	if !ok {
		return REPRO{}, false
	}
	return REPRO{Size: size, Hash: hash}, true
}

// DebugFPO decodes the frame-pointer-omission table attached to a debug
// entry of type ImageDebugTypeFPO.
func (img *Image[N]) DebugFPO(entry ImageDebugDirectory) ([]FPOData, bool) {
	if entry.Type != ImageDebugTypeFPO {
		return nil, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return nil, false
	}
	var out []FPOData
	cur := begin
	var c uint32
	for c < entry.SizeOfData {
		var fpo FPOData
		var ok1, ok2, ok3 bool
		fpo.OffsetStart, ok1 = readUint32At(img.store, cur)
		fpo.ProcSize, ok2 = readUint32At(img.store, addN(cur, 4))
		fpo.NumLocals, ok3 = readUint32At(img.store, addN(cur, 8))
		if !ok1 || !ok2 || !ok3 {
			break
		}
		fpo.ParamsSize, ok1 = readUint16At(img.store, addN(cur, 12))
		raw, ok2 := readAt(img.store, addN(cur, 14), 1)
		if !ok1 || !ok2 {
			break
		}
		fpo.PrologLength = raw[0]
		attributes, ok := readUint16At(img.store, addN(cur, 15))
		if !ok {
			break
		}
		fpo.SavedRegsCount = uint8(attributes & 0x7)
		fpo.HasSEH = uint8(attributes & 0x8 >> 3)
		fpo.UseBP = uint8(attributes & 0x10 >> 4)
		fpo.Reserved = uint8(attributes & 0x20 >> 5)
		fpo.FrameType = FPOFrameType(attributes & 0xC0 >> 6)
		out = append(out, fpo)
		c += 16
		cur = addN(cur, 16)
	}
	return out, true
}

// DebugExDllCharacteristics decodes the extended DLL characteristics bits
// carried by a debug entry of type ImageDebugTypeExDllCharacteristics.
func (img *Image[N]) DebugExDllCharacteristics(entry ImageDebugDirectory) (DllCharacteristicsExType, bool) {
	if entry.Type != ImageDebugTypeExDllCharacteristics {
		return 0, false
	}
	begin, ok := debugDataOffset[N](entry, img.sections)
	if !ok {
		return 0, false
	}
	v, ok := readUint32At(img.store, begin)
	if !ok {
		return 0, false
	}
	return DllCharacteristicsExType(v), true
}

// SectionAttributeDescription maps a section attribute to a friendly name.
func SectionAttributeDescription(section string) string {
	sectionNameMap := map[string]string{
		".00cfg":                               "CFG Check Functions Pointers",
		".bss$00":                              "Uninit.data in phaseN of Pri7",
		".bss$dk00":                            "PGI: Uninit.data may be not const",
		".bss$dk01":                            "PGI: Uninit.data may be not const",
		".bss$pr00":                            "PGI: Uninit.data only for read",
		".bss$pr03":                            "PGI: Uninit.data only for read",
		".bss$zz":                              "PGO: Dead uninit.data",
		".CRT$XCA":                             "First C++ Initializer",
		".CRT$XCZ":                             "Last C++ Initializer",
		".xdata$x":                             "EH data",
		".gfids$y":                             "CFG Functions table",
		".CRT$XCAA":                            "Startup C++ Initializer",
		".CRT$XCC":                             "Global initializer: init_seg(compiler)",
		".CRT$XCL":                             "Global initializer: init_seg(lib)",
		".CRT$XCU":                             "Global initializer: init_seg(user)",
		".CRT$XDA":                             "First Dynamic TLS Initializer",
		".CRT$XDZ":                             "Last Dynamic TLS Initializer",
		".CRT$XIA":                             "First C Initializer",
		".CRT$XIAA":                            "Startup C Initializer",
		".CRT$XIAB":                            "PGO C Initializer",
		".CRT$XIAC":                            "Post-PGO C Initializer",
		".CRT$XIC":                             "CRT C Initializers",
		".CRT$XIYA":                            "VCCorLib Threading Model Initializer",
		".CRT$XIYAA":                           "XAML Designer Threading Model Override Initializer",
		".CRT$XIYB":                            "VCCorLib Main Initializer",
		".CRT$XIZ":                             "Last C Initializer",
		".CRT$XLA":                             "First Loader TLS Callback",
		".CRT$XLC":                             "CRT TLS Constructor",
		".CRT$XLD":                             "CRT TLS Terminator",
		".CRT$XLZ":                             "Last Loader TLS Callback",
		".CRT$XPA":                             "First Pre-Terminator",
		".CRT$XPB":                             "CRT ConcRT Pre-Terminator",
		".CRT$XPX":                             "CRT Pre-Terminators",
		".CRT$XPXA":                            "CRT stdio Pre-Terminator",
		".CRT$XPZ":                             "Last Pre-Terminator",
		".CRT$XTA":                             "First Terminator",
		".CRT$XTZ":                             "Last Terminator",
		".CRTMA$XCA":                           "First Managed C++ Initializer",
		".CRTMA$XCZ":                           "Last Managed C++ Initializer",
		".CRTVT$XCA":                           "First Managed VTable Initializer",
		".CRTVT$XCZ":                           "Last Managed VTable Initializer",
		".data$00":                             "Init.data in phaseN of Pri7",
		".data$dk00":                           "PGI: Init.data may be not const",
		".data$dk00$brc":                       "PGI: Init.data may be not const",
		".data$pr00":                           "PGI: Init.data only for read",
		".data$r":                              "RTTI Type Descriptors",
		".data$zz":                             "PGO: Dead init.data",
		".data$zz$brc":                         "PGO: Dead init.data",
		".didat$2":                             "Delay Import Descriptors",
		".didat$3":                             "Delay Import Final NULL Entry",
		".didat$4":                             "Delay Import INT",
		".didat$5":                             "Delay Import IAT",
		".didat$6":                             "Delay Import Symbol Names",
		".didat$7":                             "Delay Import Bound IAT",
		".edata":                               "Export Table",
		".gehcont":                             "CFG EHCont Table",
		".gfids":                               "CFG Functions Table",
		".giats":                               "CFG IAT Table",
		".idata$2":                             "Import Descriptors",
		".idata$3":                             "Import Final NULL Entry",
		".idata$4":                             "Import Names Table",
		".idata$5":                             "Import Addresses Table",
		".idata$6":                             "Import Symbol and DLL Names",
		".pdata":                               "Procedure data",
		".rdata$00":                            "Readonly data in phaseN of Pri7",
		".rdata$00$brc":                        "Readonly data in phaseN of Pri7",
		".rdata$09":                            "Readonly data in phaseN of Pri7",
		".rdata$brc":                           "BaseRelocation Clustering",
		".rdata$r":                             "RTTI Data",
		".rdata$sxdata":                        "Safe SEH",
		".rdata$T":                             "TLS Header",
		".rdata$zETW0":                         "ETW Metadata Header",
		".rdata$zETW1":                         "ETW Events Metadata",
		".rdata$zETW2":                         "ETW Providers Metadata",
		".rdata$zETW9":                         "ETW Metadata Footer",
		".rdata$zz":                            "PGO: Dead Readonly Data",
		".rdata$zz$brc":                        "PGO: Dead Readonly Data",
		".rdata$zzzdbg":                        "Debug directory data",
		".rsrc$01":                             "Resources Header",
		".rsrc$02":                             "Resources Data",
		".rtc$IAA":                             "First RTC Initializer",
		".rtc$IZZ":                             "Last RTC Initializer",
		".rtc$TAA":                             "First RTC Terminator",
		".rtc$TZZ":                             "Last RTC Terminator",
		".text$di":                             "MSVC Dynamic Initializers",
		".text$lp00kernel32.dll!20_pri7":       "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp01kernel32.dll!20_pri7":       "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp03kernel32.dll!30_clientonly": "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp04kernel32.dll!30_clientonly": "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp08kernel32.dll!40_serveronly": "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp09kernel32.dll!40_serveronly": "PGO: LoaderPhaseN warm-to-hot code",
		".text$lp10kernel32.dll!40_serveronly": "PGO: LoaderPhaseN warm-to-hot code",
		".text$mn":                             "Contains EP",
		".text$mn$00":                          "CFG Dispatching",
		".text$np":                             "PGO: __asm or disabled via pragma",
		".text$x":                              "EH Filters",
		".text$yd":                             "MSVC Destructors",
		".text$zy":                             "PGO: Dead Code Blocks",
		".text$zz":                             "PGO: Dead Whole Functions",
		".xdata":                               "Unwind data",
	}

	if val, ok := sectionNameMap[section]; ok {
		return val
	}

	return ""
}

// String returns a string interpretation of the FPO frame type.
func (ft FPOFrameType) String() string {
	frameTypeMap := map[FPOFrameType]string{
		FrameFPO:    "FPO",
		FrameTrap:   "Trap",
		FrameTSS:    "TSS",
		FrameNonFPO: "Non FPO",
	}

	v, ok := frameTypeMap[ft]
	if ok {
		return v
	}

	return "?"
}

// String returns the string representation of a GUID.
func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%04X-%X}", g.Data1, g.Data2, g.Data3, g.Data4[0:2], g.Data4[2:])
}

// String returns the string representation of a debug entry type.
func (t ImageDebugDirectoryType) String() string {

	debugTypeMap := map[ImageDebugDirectoryType]string{
		ImageDebugTypeUnknown:              "Unknown",
		ImageDebugTypeCOFF:                 "COFF",
		ImageDebugTypeCodeView:             "CodeView",
		ImageDebugTypeFPO:                  "FPO",
		ImageDebugTypeMisc:                 "Misc",
		ImageDebugTypeException:            "Exception",
		ImageDebugTypeFixup:                "Fixup",
		ImageDebugTypeOMAPToSrc:            "OMAP To Src",
		ImageDebugTypeOMAPFromSrc:          "OMAP From Src",
		ImageDebugTypeBorland:              "Borland",
		ImageDebugTypeReserved:             "Reserved",
		ImageDebugTypeVCFeature:            "VC Feature",
		ImageDebugTypePOGO:                 "POGO",
		ImageDebugTypeILTCG:                "iLTCG",
		ImageDebugTypeMPX:                  "MPX",
		ImageDebugTypeRepro:                "REPRO",
		ImageDebugTypeExDllCharacteristics: "Ex.DLL Characteristics",
	}

	v, ok := debugTypeMap[t]
	if ok {
		return v
	}

	return "?"
}

// String returns a string interpretation of a POGO type.
func (p POGOType) String() string {
	pogoTypeMap := map[POGOType]string{
		POGOTypePGU:  "PGU",
		POGOTypePGI:  "PGI",
		POGOTypePGO:  "PGO",
		POGOTypeLTCG: "LTCG",
	}

	v, ok := pogoTypeMap[p]
	if ok {
		return v
	}

	return "?"
}

// String returns a string interpretation of a CodeView signature.
func (s CVSignature) String() string {
	cvSignatureMap := map[CVSignature]string{
		CVSignatureRSDS: "RSDS",
		CVSignatureNB10: "NB10",
	}

	v, ok := cvSignatureMap[s]
	if ok {
		return v
	}

	return "?"
}

// String returns a string interpretation of Dll Characteristics Ex.
func (flag DllCharacteristicsExType) String() string {
	dllCharacteristicsExTypeMap := map[DllCharacteristicsExType]string{
		ImageDllCharacteristicsExCETCompat: "CET Compatible",
	}

	v, ok := dllCharacteristicsExTypeMap[flag]
	if ok {
		return v
	}

	return "?"
}
