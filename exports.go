// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// ImageExportDirectory is the EXPORT directory header: counts and RVAs of
// the three parallel arrays (functions, names, name ordinals) that make up
// an image's export table.
type ImageExportDirectory struct {
	Characteristics       uint32 `json:"characteristics"`
	TimeDateStamp         uint32 `json:"time_date_stamp"`
	MajorVersion          uint16 `json:"major_version"`
	MinorVersion          uint16 `json:"minor_version"`
	Name                  uint32 `json:"name"`
	Base                  uint32 `json:"base"`
	NumberOfFunctions     uint32 `json:"number_of_functions"`
	NumberOfNames         uint32 `json:"number_of_names"`
	AddressOfFunctions    uint32 `json:"address_of_functions"`
	AddressOfNames        uint32 `json:"address_of_names"`
	AddressOfNameOrdinals uint32 `json:"address_of_name_ordinals"`
}

const sizeOfImageExportDirectory = 40

// ExportDirectory decodes the EXPORT directory header. Unlike the function
// table it describes, the header itself is a single fixed-size record, so
// it is read eagerly rather than through a Cursor.
func (img *Image[N]) ExportDirectory() (ImageExportDirectory, bool) {
	begin, _, ok := img.tableBounds(int(ImageDirectoryEntryExport))
	if !ok {
		return ImageExportDirectory{}, false
	}
	var d ImageExportDirectory
	if !unpack(img.store, begin, sizeOfImageExportDirectory, &d) {
		return ImageExportDirectory{}, false
	}
	return d, true
}

// ExportDirectoryName reads the DLL's own declared name (ImageExportDirectory.Name).
func (img *Image[N]) ExportDirectoryName() (string, bool) {
	dir, ok := img.ExportDirectory()
	if !ok {
		return "", false
	}
	off, ok := rvaToOffset[N](dir.Name, img.sections)
	if !ok {
		return "", false
	}
	return img.ReadCString(off, maxDllLength)
}

const maxDllLength = 0x200

// ExportFunction is one entry of the export address table, an ordinal
// paired with either a code address or, when the address falls inside the
// export directory's own RVA range, a forwarder string naming another
// DLL.Function this one aliases.
type ExportFunction struct {
	Ordinal      uint32 `json:"ordinal"`
	FunctionRVA  uint32 `json:"function_rva"`
	NameRVA      uint32 `json:"name_rva"`
	Name         string `json:"name"`
	Forwarder    string `json:"forwarder"`
	ForwarderRVA uint32 `json:"forwarder_rva"`
}

func readUint32At[N offset](s ByteStore, off N) (uint32, bool) {
	raw, ok := readAt(s, off, 4)
	if !ok {
		return 0, false
	}
	return uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24, true
}

func readUint16At[N offset](s ByteStore, off N) (uint16, bool) {
	raw, ok := readAt(s, off, 2)
	if !ok {
		return 0, false
	}
	return uint16(raw[0]) | uint16(raw[1])<<8, true
}

// namesByOrdinal walks the (bounded, NumberOfNames-sized) name and name-
// ordinal arrays once and returns a lookup from exported ordinal to name
// and its NameRVA. It is built eagerly, the same way the relocation block
// header and the section table are, because Cursor's single forward pass
// can't do the reverse ordinal->name lookup the function table needs.
func (img *Image[N]) namesByOrdinal(dir ImageExportDirectory) map[uint32]struct {
	name string
	rva  uint32
} {
	out := map[uint32]struct {
		name string
		rva  uint32
	}{}
	if dir.NumberOfNames == 0 {
		return out
	}
	namesBegin, ok1 := rvaToOffset[N](dir.AddressOfNames, img.sections)
	ordsBegin, ok2 := rvaToOffset[N](dir.AddressOfNameOrdinals, img.sections)
	if !ok1 || !ok2 {
		return out
	}
	for i := uint32(0); i < dir.NumberOfNames; i++ {
		nameRVA, ok := readUint32At(img.store, addN(namesBegin, int64(i)*4))
		if !ok {
			break
		}
		ord, ok := readUint16At(img.store, addN(ordsBegin, int64(i)*2))
		if !ok {
			break
		}
		nameOff, ok := rvaToOffset[N](nameRVA, img.sections)
		if !ok {
			continue
		}
		name, _ := img.ReadCString(nameOff, maxImportNameLength)
		out[dir.Base+uint32(ord)] = struct {
			name string
			rva  uint32
		}{name, nameRVA}
	}
	return out
}

// ExportedFunctions returns a cursor over the export address table. Each
// element's ordinal is Base+index; when that ordinal also appears in the
// name table its Name/NameRVA are filled in, and when its address table
// entry falls inside the export directory's own RVA range the entry is a
// forwarder (FunctionRVA is zero, Forwarder/ForwarderRVA are set instead).
func (img *Image[N]) ExportedFunctions() Cursor[N, ExportFunction] {
	dir, ok := img.ExportDirectory()
	if !ok {
		return absentCursor[N, ExportFunction]()
	}
	dd, _ := img.DataDirectory(int(ImageDirectoryEntryExport))
	expBegin, expEnd := dd.VirtualAddress, dd.VirtualAddress+dd.Size

	funcsBegin, ok := rvaToOffset[N](dir.AddressOfFunctions, img.sections)
	if !ok {
		return absentCursor[N, ExportFunction]()
	}
	names := img.namesByOrdinal(dir)
	sections := img.sections
	end := addN(funcsBegin, int64(dir.NumberOfFunctions)*4)

	decode := func(s ByteStore, off N) (ExportFunction, int64, bool) {
		rva, ok := readUint32At(s, off)
		if !ok {
			return ExportFunction{}, 0, false
		}
		index := uint32((off.Value() - funcsBegin.Value()) / 4)
		f := ExportFunction{Ordinal: dir.Base + index, FunctionRVA: rva}
		if n, found := names[f.Ordinal]; found {
			f.Name = n.name
			f.NameRVA = n.rva
		}
		if dd.Size > 0 && rva >= expBegin && rva < expEnd {
			if fwdOff, ok := rvaToOffset[N](rva, sections); ok {
				fwd, _ := img.ReadCString(fwdOff, maxImportNameLength)
				f.Forwarder = fwd
				f.ForwarderRVA = rva
				f.FunctionRVA = 0
			}
		}
		return f, 4, true
	}
	return newCursor(img.store, funcsBegin, end, true, nil, decode)
}

// functionAt resolves the export address table entry at the given 0-based
// index (ordinal = dir.Base+idx) into an ExportFunction, applying the
// forwarder check against the export directory's own RVA range.
func (img *Image[N]) functionAt(dir ImageExportDirectory, idx uint32) (ExportFunction, bool) {
	funcsBegin, ok := rvaToOffset[N](dir.AddressOfFunctions, img.sections)
	if !ok {
		return ExportFunction{}, false
	}
	rva, ok := readUint32At(img.store, addN(funcsBegin, int64(idx)*4))
	if !ok {
		return ExportFunction{}, false
	}
	f := ExportFunction{Ordinal: dir.Base + idx, FunctionRVA: rva}
	dd, _ := img.DataDirectory(int(ImageDirectoryEntryExport))
	if dd.Size > 0 && rva >= dd.VirtualAddress && rva < dd.VirtualAddress+dd.Size {
		if fwdOff, ok := rvaToOffset[N](rva, img.sections); ok {
			fwd, _ := img.ReadCString(fwdOff, maxImportNameLength)
			f.Forwarder = fwd
			f.ForwarderRVA = rva
			f.FunctionRVA = 0
		}
	}
	return f, true
}

// FindExportByName performs the export directory's lookup-by-name
// algorithm: a linear scan of the name table, resolving a match's name
// ordinal through the function address table rather than through
// ExportedFunctions' bulk ordinal->name map. A name ordinal at or past
// NumberOfNames is a corrupt export directory, reported as
// ErrMalformedExport rather than silently treated as no match.
func (img *Image[N]) FindExportByName(name string) (ExportFunction, bool, error) {
	dir, ok := img.ExportDirectory()
	if !ok || dir.NumberOfNames == 0 {
		return ExportFunction{}, false, nil
	}
	namesBegin, ok1 := rvaToOffset[N](dir.AddressOfNames, img.sections)
	ordsBegin, ok2 := rvaToOffset[N](dir.AddressOfNameOrdinals, img.sections)
	if !ok1 || !ok2 {
		return ExportFunction{}, false, nil
	}
	for i := uint32(0); i < dir.NumberOfNames; i++ {
		nameRVA, ok := readUint32At(img.store, addN(namesBegin, int64(i)*4))
		if !ok {
			return ExportFunction{}, false, nil
		}
		nameOff, ok := rvaToOffset[N](nameRVA, img.sections)
		if !ok {
			continue
		}
		candidate, _ := img.ReadCString(nameOff, maxImportNameLength)
		if candidate != name {
			continue
		}
		o, ok := readUint16At(img.store, addN(ordsBegin, int64(i)*2))
		if !ok {
			return ExportFunction{}, false, nil
		}
		if uint32(o) >= dir.NumberOfNames {
			return ExportFunction{}, false, ErrMalformedExport
		}
		f, ok := img.functionAt(dir, uint32(o))
		if !ok {
			return ExportFunction{}, false, nil
		}
		f.Name = candidate
		f.NameRVA = nameRVA
		return f, true, nil
	}
	return ExportFunction{}, false, nil
}

// FindExportByOrdinal scans ExportedFunctions for the entry with the given
// ordinal.
func (img *Image[N]) FindExportByOrdinal(ordinal uint32) (ExportFunction, bool) {
	c := img.ExportedFunctions()
	for {
		v, ok := c.Next()
		if !ok {
			return ExportFunction{}, false
		}
		if v.Value.Ordinal == ordinal {
			return v.Value, true
		}
	}
}
