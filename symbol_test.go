// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"testing"
)

func buildCOFFSymbol(name [8]byte, value uint32, sectionNumber int16, typ uint16, storageClass, auxCount uint8) []byte {
	b := make([]byte, sizeOfCOFFSymbol)
	copy(b[0:8], name[:])
	binary.LittleEndian.PutUint32(b[8:12], value)
	binary.LittleEndian.PutUint16(b[12:14], uint16(sectionNumber))
	binary.LittleEndian.PutUint16(b[14:16], typ)
	b[16] = storageClass
	b[17] = auxCount
	return b
}

func TestCOFFSymbolsShortAndLongName(t *testing.T) {
	var shortName [8]byte
	copy(shortName[:], ".text")
	sym1 := buildCOFFSymbol(shortName, 0x2ac, 1, ImageSymTypeNull, ImageSymClassExternal, 0)

	var longName [8]byte
	binary.LittleEndian.PutUint32(longName[4:8], 4) // offset into the string table
	sym2 := buildCOFFSymbol(longName, 0x10, ImageSymUndefined, ImageSymTypeNull, ImageSymClassExternal, 0)

	symtab := append(append([]byte{}, sym1...), sym2...)

	strtab := make([]byte, 4)
	binary.LittleEndian.PutUint32(strtab[0:4], uint32(4+len("my_symbol")+1))
	strtab = append(strtab, append([]byte("my_symbol"), 0)...)

	blob := append(symtab, strtab...)

	probe := newPEBuilder(false).addSection(".text", 0x1000, make([]byte, 0x10)).setExtra(blob)
	probe.build()
	off := probe.extraOffset()

	buf := newPEBuilder(false).
		addSection(".text", 0x1000, make([]byte, 0x10)).
		setExtra(blob).
		setCOFFSymbolTable(off, 2).
		build()
	img := newTestFileImage(t, buf)

	var syms []COFFSymbol
	cursor := img.COFFSymbols()
	for {
		p, ok := cursor.Next()
		if !ok {
			break
		}
		syms = append(syms, p.Value)
	}
	if len(syms) != 2 {
		t.Fatalf("got %d symbols, want 2", len(syms))
	}

	name1, ok := img.COFFSymbolName(syms[0])
	if !ok || name1 != ".text" {
		t.Errorf("COFFSymbolName(syms[0]) = (%q, %v), want (.text, true)", name1, ok)
	}
	if secName := syms[0].SectionNumberName(img.Sections()); secName != ".text" {
		t.Errorf("SectionNumberName(syms[0]) = %q, want .text", secName)
	}

	name2, ok := img.COFFSymbolName(syms[1])
	if !ok || name2 != "my_symbol" {
		t.Errorf("COFFSymbolName(syms[1]) = (%q, %v), want (my_symbol, true)", name2, ok)
	}
	if secName := syms[1].SectionNumberName(img.Sections()); secName != "Undefined" {
		t.Errorf("SectionNumberName(syms[1]) = %q, want Undefined", secName)
	}

	if got := COFFTypeString(syms[0].Type); got != "Null" {
		t.Errorf("COFFTypeString = %q, want Null", got)
	}
}

func TestCOFFSymbolsAbsentWhenNoSymtab(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.COFFSymbols().Next(); ok {
		t.Errorf("COFFSymbols: expected empty cursor with no symbol table")
	}
}

func TestCOFFSymbolsTooManyRejected(t *testing.T) {
	buf := newPEBuilder(false).setCOFFSymbolTable(0x1000, maxCOFFSymbolsCount+1).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.COFFSymbols().Next(); ok {
		t.Errorf("COFFSymbols: expected empty cursor when NumberOfSymbols exceeds the limit")
	}
}

func TestSectionNumberNameSpecialCases(t *testing.T) {
	tests := []struct {
		sectionNumber int16
		want          string
	}{
		{ImageSymUndefined, "Undefined"},
		{ImageSymAbsolute, "Absolute"},
		{ImageSymDebug, "Debug"},
		{99, "?"},
	}
	for _, tt := range tests {
		sym := COFFSymbol{SectionNumber: tt.sectionNumber}
		if got := sym.SectionNumberName(nil); got != tt.want {
			t.Errorf("SectionNumberName(%d) = %q, want %q", tt.sectionNumber, got, tt.want)
		}
	}
}
