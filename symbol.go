// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "strings"

const (
	// maxCOFFSymbolsCount guards against a fake huge NumberOfSymbols count;
	// some malware sets one to force an out-of-memory walk of the symbol
	// table. Example: 0000e876c5b712b6b7b3ce97f757ddd918fb3dbdc5a3938e850716fbd841309f
	maxCOFFSymbolsCount = 0x10000

	// maxCOFFSymStrLength bounds a single COFF symbol name read.
	maxCOFFSymStrLength = 0x50

	//
	// Type Representation
	//

	// ImageSymTypeNull indicates no type information or unknown base type.
	// Microsoft tools use this setting.
	ImageSymTypeNull = 0

	// ImageSymTypeVoid indicates no type no valid type; used with void pointers and functions.
	ImageSymTypeVoid = 1

	// ImageSymTypeChar indicates a character (signed byte).
	ImageSymTypeChar = 2

	// ImageSymTypeShort indicates a 2-byte signed integer.
	ImageSymTypeShort = 3

	// ImageSymTypeInt indicates a natural integer type (normally 4 bytes in
	// Windows).
	ImageSymTypeInt = 4

	// ImageSymTypeLong indicates a 4-byte signed integer.
	ImageSymTypeLong = 5

	// ImageSymTypeFloat indicates a 4-byte floating-point number.
	ImageSymTypeFloat = 6

	// ImageSymTypeDouble indicates an 8-byte floating-point number.
	ImageSymTypeDouble = 7

	// ImageSymTypeStruct indicates a structure.
	ImageSymTypeStruct = 8

	// ImageSymTypeUnion indicates a union.
	ImageSymTypeUnion = 9

	// ImageSymTypeEnum indicates an enumerated type.
	ImageSymTypeEnum = 10

	// ImageSymTypeMoe is a member of enumeration (a specific value).
	ImageSymTypeMoe = 11

	// ImageSymTypeByte indicates a byte; unsigned 1-byte integer.
	ImageSymTypeByte = 12

	// ImageSymTypeWord indicates a word; unsigned 2-byte integer.
	ImageSymTypeWord = 13

	// ImageSymTypeUint indicates an unsigned integer of natural size
	// (normally, 4 bytes).
	ImageSymTypeUint = 14

	// ImageSymTypeDword indicates an unsigned 4-byte integer.
	ImageSymTypeDword = 15

	//
	// Storage Class
	//

	// ImageSymClassEndOfFunction indicates a special symbol that represents
	// the end of function, for debugging purposes.
	ImageSymClassEndOfFunction = 0xff

	// ImageSymClassNull indicates no assigned storage class.
	ImageSymClassNull = 0

	// ImageSymClassAutomatic indicates automatic (stack) variable. The Value
	// field specifies the stack frame offset.
	ImageSymClassAutomatic = 1

	// ImageSymClassExternal indicates a value that Microsoft tools use for
	// external symbols. The Value field indicates the size if the section
	// number is IMAGE_SYM_UNDEFINED (0). If the section number is not zero,
	// then the Value field specifies the offset within the section.
	ImageSymClassExternal = 2

	// ImageSymClassStatic indicates the offset of the symbol within the
	// section. If the Value field is zero, then the symbol represents a
	// section name.
	ImageSymClassStatic = 3

	// ImageSymClassRegister indicates a register variable. The Value field
	// specifies the register number.
	ImageSymClassRegister = 4

	// ImageSymClassExternalDef indicates a symbol that is defined externally.
	ImageSymClassExternalDef = 5

	// ImageSymClassLabel indicates a code label that is defined within the
	// module. The Value field specifies the offset of the symbol within the
	// section.
	ImageSymClassLabel = 6

	// ImageSymClassUndefinedLabel indicates a reference to a code label that
	// is not defined.
	ImageSymClassUndefinedLabel = 7

	// ImageSymClassMemberOfStruct indicates the structure member. The Value
	// field specifies the n th member.
	ImageSymClassMemberOfStruct = 8

	// ImageSymClassArgument indicates a formal argument (parameter) of a
	// function. The Value field specifies the n th argument.
	ImageSymClassArgument = 9

	// ImageSymClassStructTag indicates the structure tag-name entry.
	ImageSymClassStructTag = 10

	// ImageSymClassMemberOfUnion indicates a union member. The Value field
	// specifies the n th member.
	ImageSymClassMemberOfUnion = 11

	// ImageSymClassUnionTag indicates the structure tag-name entry.
	ImageSymClassUnionTag = 12

	// ImageSymClassTypeDefinition indicates a typedef entry.
	ImageSymClassTypeDefinition = 13

	// ImageSymClassUndefinedStatic indicates a static data declaration.
	ImageSymClassUndefinedStatic = 14

	// ImageSymClassEnumTag indicates an enumerated type tagname entry.
	ImageSymClassEnumTag = 15

	// ImageSymClassMemberOfEnum indicates a member of an enumeration. The
	// Value field specifies the n th member.
	ImageSymClassMemberOfEnum = 16

	// ImageSymClassRegisterParam indicates a register parameter.
	ImageSymClassRegisterParam = 17

	// ImageSymClassBitField indicates a bit-field reference. The Value field
	// specifies the n th bit in the bit field.
	ImageSymClassBitField = 18

	// ImageSymClassBlock indicates a .bb (beginning of block) or .eb (end of
	// block) record. The Value field is the relocatable address of the code
	// location.
	ImageSymClassBlock = 100

	// ImageSymClassFunction indicates a value that Microsoft tools use for
	// symbol records that define the extent of a function: begin function
	// (.bf), end function (.ef), and lines in function (.lf). For .lf
	// records, the Value field gives the number of source lines in the
	// function. For .ef records, the Value field gives the size of the
	// function code.
	ImageSymClassFunction = 101

	// ImageSymClassEndOfStruct indicates an end-of-structure entry.
	ImageSymClassEndOfStruct = 102

	// ImageSymClassFile indicates a value that Microsoft tools, as well as
	// traditional COFF format, use for the source-file symbol record. The
	// symbol is followed by auxiliary records that name the file.
	ImageSymClassFile = 103

	// ImageSymClassSsection indicates a definition of a section (Microsoft
	// tools use STATIC storage class instead).
	ImageSymClassSsection = 104

	// ImageSymClassWeakExternal indicates a weak external.
	ImageSymClassWeakExternal = 24

	// ImageSymClassClrToken indicates a CLR token symbol. The name is an
	// ASCII string that consists of the hexadecimal value of the token.
	ImageSymClassClrToken = 25

	//
	// Section Number Values.
	//

	// ImageSymUndefined indicates that the symbol record is not yet assigned
	// a section. A value of zero indicates that a reference to an external
	// symbol is defined elsewhere. A value of non-zero is a common symbol
	// with a size that is specified by the value.
	ImageSymUndefined = 0

	// ImageSymAbsolute indicates that the symbol has an absolute
	// (non-relocatable) value and is not an address.
	ImageSymAbsolute = -1

	// ImageSymDebug indicates that the symbol provides general type or
	// debugging information but does not correspond to a section. Microsoft
	// tools use this setting along with .file records (storage class FILE).
	ImageSymDebug = -2
)

// COFFSymbol is one 18-byte record of the COFF symbol table, inherited from
// the traditional COFF object format and distinct from any richer debug
// information (CodeView, PDB) the image might also carry.
type COFFSymbol struct {
	// Name is a union: either the symbol's raw 8-byte short name, or a
	// (zero, offset) pair pointing into the COFF string table - see
	// Image.COFFSymbolName.
	Name [8]byte `json:"name"`

	Value         uint32 `json:"value"`
	SectionNumber int16  `json:"section_number"`
	Type          uint16 `json:"type"`
	StorageClass  uint8  `json:"storage_class"`

	// NumberOfAuxSymbols is how many auxiliary records follow this one;
	// COFFSymbols does not decode them, since their shape depends on
	// StorageClass and this package has no caller needing them yet.
	NumberOfAuxSymbols uint8 `json:"number_of_aux_symbols"`
}

const sizeOfCOFFSymbol = 18

// COFFSymbols returns a cursor over the COFF symbol table named by
// FileHeader.PointerToSymbolTable/NumberOfSymbols. Both fields are file
// offsets and counts regardless of Image's address-space parameter, since
// the symbol table is debug-time-only data never mapped by the loader.
func (img *Image[N]) COFFSymbols() Cursor[N, COFFSymbol] {
	ptr := img.fileHeader.PointerToSymbolTable
	count := img.fileHeader.NumberOfSymbols
	if ptr == 0 || count == 0 {
		return absentCursor[N, COFFSymbol]()
	}
	if count > maxCOFFSymbolsCount {
		img.log.Warnf("NumberOfSymbols %d exceeds %d, not walking the COFF symbol table", count, maxCOFFSymbolsCount)
		return absentCursor[N, COFFSymbol]()
	}
	begin, ok := rawFileOffsetToN(img, ptr)
	if !ok {
		return absentCursor[N, COFFSymbol]()
	}
	end := addN(begin, int64(count)*sizeOfCOFFSymbol)
	decode := func(s ByteStore, off N) (COFFSymbol, int64, bool) {
		var sym COFFSymbol
		if !unpack(s, off, sizeOfCOFFSymbol, &sym) {
			return COFFSymbol{}, 0, false
		}
		return sym, sizeOfCOFFSymbol, true
	}
	return newCursor(img.store, begin, end, true, nil, decode)
}

// coffStringTableBegin returns the offset of the COFF string table's
// leading 4-byte size field - the reference point symbol name offsets are
// counted from, immediately following the symbol table itself.
func (img *Image[N]) coffStringTableBegin() (N, bool) {
	ptr := img.fileHeader.PointerToSymbolTable
	count := img.fileHeader.NumberOfSymbols
	if ptr == 0 || count == 0 || count > maxCOFFSymbolsCount {
		var zero N
		return zero, false
	}
	return rawFileOffsetToN(img, ptr+uint32(count)*sizeOfCOFFSymbol)
}

// COFFString reads the NUL-terminated string at byte offset off counted
// from the start of the COFF string table (the same convention
// COFFSymbolName's long-name form uses).
func (img *Image[N]) COFFString(off uint32) (string, bool) {
	base, ok := img.coffStringTableBegin()
	if !ok {
		return "", false
	}
	return img.ReadCString(addN(base, int64(off)), maxCOFFSymStrLength)
}

// COFFSymbolName decodes a COFFSymbol's Name union: a short name is stored
// inline in all 8 bytes; a long name is a (zero, offset) pair where offset
// counts into the COFF string table.
func (img *Image[N]) COFFSymbolName(sym COFFSymbol) (string, bool) {
	short := uint32(sym.Name[0]) | uint32(sym.Name[1])<<8 | uint32(sym.Name[2])<<16 | uint32(sym.Name[3])<<24
	if short != 0 {
		return strings.TrimRight(string(sym.Name[:]), "\x00"), true
	}
	long := uint32(sym.Name[4]) | uint32(sym.Name[5])<<8 | uint32(sym.Name[6])<<16 | uint32(sym.Name[7])<<24
	return img.COFFString(long)
}

// SectionNumberName resolves a COFFSymbol.SectionNumber to the name of the
// section it indexes (SectionNumber is one-based), or one of the three
// special negative/zero meanings the format reserves.
func (sym COFFSymbol) SectionNumberName(sections []ImageSectionHeader) string {
	if sym.SectionNumber > 0 && int(sym.SectionNumber) <= len(sections) {
		return sections[sym.SectionNumber-1].NameString()
	}
	switch sym.SectionNumber {
	case ImageSymUndefined:
		return "Undefined"
	case ImageSymAbsolute:
		return "Absolute"
	case ImageSymDebug:
		return "Debug"
	}
	return "?"
}

// COFFTypeString returns the string representation of a COFFSymbol.Type value.
func COFFTypeString(k uint16) string {
	coffSymTypeMap := map[uint16]string{
		ImageSymTypeNull:   "Null",
		ImageSymTypeVoid:   "Void",
		ImageSymTypeChar:   "Char",
		ImageSymTypeShort:  "Short",
		ImageSymTypeInt:    "Int",
		ImageSymTypeLong:   "Long",
		ImageSymTypeFloat:  "Float",
		ImageSymTypeDouble: "Double",
		ImageSymTypeStruct: "Struct",
		ImageSymTypeUnion:  "Union",
		ImageSymTypeEnum:   "Enum",
		ImageSymTypeMoe:    "Moe",
		ImageSymTypeByte:   "Byte",
		ImageSymTypeWord:   "Word",
		ImageSymTypeUint:   "Uint",
		ImageSymTypeDword:  "Dword",
	}
	if value, ok := coffSymTypeMap[k]; ok {
		return value
	}
	return ""
}
