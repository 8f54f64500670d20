// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"testing"
)

func buildResourceDirectoryHeader(namedCount, idCount uint16) []byte {
	b := make([]byte, sizeOfImageResourceDirectory)
	binary.LittleEndian.PutUint16(b[12:14], namedCount)
	binary.LittleEndian.PutUint16(b[14:16], idCount)
	return b
}

func buildResourceDirectoryEntry(name, offsetToData uint32) []byte {
	b := make([]byte, sizeOfImageResourceDirectoryEntry)
	binary.LittleEndian.PutUint32(b[0:4], name)
	binary.LittleEndian.PutUint32(b[4:8], offsetToData)
	return b
}

func buildResourceDataEntry(offsetToData, size, codePage uint32) []byte {
	b := make([]byte, sizeOfImageResourceDataEntry)
	binary.LittleEndian.PutUint32(b[0:4], offsetToData)
	binary.LittleEndian.PutUint32(b[4:8], size)
	binary.LittleEndian.PutUint32(b[8:12], codePage)
	return b
}

// buildThreeLevelResourceTree lays out a type -> name -> language resource
// tree, each level holding exactly one ID entry, terminating in a single
// data entry.
func buildThreeLevelResourceTree() []byte {
	const (
		rootOff   = 0
		nameOff   = rootOff + sizeOfImageResourceDirectory + sizeOfImageResourceDirectoryEntry
		langOff   = nameOff + sizeOfImageResourceDirectory + sizeOfImageResourceDirectoryEntry
		dataOff   = langOff + sizeOfImageResourceDirectory + sizeOfImageResourceDirectoryEntry
	)

	var buf []byte
	buf = append(buf, buildResourceDirectoryHeader(0, 1)...)
	buf = append(buf, buildResourceDirectoryEntry(uint32(RTIcon), nameOff|0x80000000)...)

	buf = append(buf, buildResourceDirectoryHeader(0, 1)...)
	buf = append(buf, buildResourceDirectoryEntry(101, langOff|0x80000000)...)

	buf = append(buf, buildResourceDirectoryHeader(0, 1)...)
	buf = append(buf, buildResourceDirectoryEntry(0x409, dataOff)...)

	buf = append(buf, buildResourceDataEntry(0x9999, 5, 0)...)

	return buf
}

func TestResourceDirectoryThreeLevels(t *testing.T) {
	const sectionVA = 0x7000
	data := buildThreeLevelResourceTree()

	buf := newPEBuilder(false).
		addSection(".rsrc", sectionVA, data).
		setDataDirectory(ImageDirectoryEntryResource, sectionVA, uint32(len(data))).
		build()
	img := newTestFileImage(t, buf)

	root, ok := img.ResourceDirectory()
	if !ok {
		t.Fatalf("ResourceDirectory: not ok")
	}
	if root.Struct.NumberOfIDEntries != 1 || len(root.Entries) != 1 {
		t.Fatalf("root = %+v", root)
	}
	typeEntry := root.Entries[0]
	if !typeEntry.IsResourceDir || typeEntry.ID != uint32(RTIcon) {
		t.Errorf("typeEntry = %+v", typeEntry)
	}

	nameLevel := typeEntry.Directory
	if len(nameLevel.Entries) != 1 {
		t.Fatalf("nameLevel = %+v", nameLevel)
	}
	nameEntry := nameLevel.Entries[0]
	if !nameEntry.IsResourceDir || nameEntry.ID != 101 {
		t.Errorf("nameEntry = %+v", nameEntry)
	}

	langLevel := nameEntry.Directory
	if len(langLevel.Entries) != 1 {
		t.Fatalf("langLevel = %+v", langLevel)
	}
	langEntry := langLevel.Entries[0]
	if langEntry.IsResourceDir {
		t.Fatalf("langEntry should be a leaf data entry: %+v", langEntry)
	}
	if langEntry.ID != 0x409 {
		t.Errorf("langEntry.ID = 0x%x, want 0x409", langEntry.ID)
	}
	if langEntry.Data.Lang != 9 || langEntry.Data.SubLang != 1 {
		t.Errorf("langEntry.Data lang/sublang = %d/%d, want 9/1", langEntry.Data.Lang, langEntry.Data.SubLang)
	}
	if langEntry.Data.Struct.OffsetToData != 0x9999 || langEntry.Data.Struct.Size != 5 {
		t.Errorf("langEntry.Data.Struct = %+v", langEntry.Data.Struct)
	}
}

func TestResourceDirectoryNamedEntry(t *testing.T) {
	const sectionVA = 0x7000
	const (
		rootOff = 0
		nameStringOff = rootOff + sizeOfImageResourceDirectory + sizeOfImageResourceDirectoryEntry
		dataEntryOff  = nameStringOff + 2 + 6 // length prefix + "FOO" as UTF-16
	)

	nameString := make([]byte, 2+6)
	binary.LittleEndian.PutUint16(nameString[0:2], 3)
	for i, r := range []uint16{'F', 'O', 'O'} {
		binary.LittleEndian.PutUint16(nameString[2+i*2:4+i*2], r)
	}

	var buf []byte
	buf = append(buf, buildResourceDirectoryHeader(1, 0)...)
	buf = append(buf, buildResourceDirectoryEntry(nameStringOff|0x80000000, dataEntryOff)...)
	buf = append(buf, nameString...)
	buf = append(buf, buildResourceDataEntry(0x1234, 10, 0)...)

	img := newTestFileImage(t, newPEBuilder(false).
		addSection(".rsrc", sectionVA, buf).
		setDataDirectory(ImageDirectoryEntryResource, sectionVA, uint32(len(buf))).
		build())

	root, ok := img.ResourceDirectory()
	if !ok {
		t.Fatalf("ResourceDirectory: not ok")
	}
	if len(root.Entries) != 1 {
		t.Fatalf("root.Entries = %+v", root.Entries)
	}
	entry := root.Entries[0]
	if entry.Name != "FOO" {
		t.Errorf("entry.Name = %q, want FOO", entry.Name)
	}
	if entry.IsResourceDir {
		t.Errorf("entry should be a leaf data entry")
	}
}

func TestResourceDirectoryAbsent(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.ResourceDirectory(); ok {
		t.Errorf("ResourceDirectory: expected ok=false with no resource directory")
	}
}

func TestResourceDirectoryMaxDepthExceeded(t *testing.T) {
	const sectionVA = 0x7000
	data := buildThreeLevelResourceTree()

	buf := newPEBuilder(false).
		addSection(".rsrc", sectionVA, data).
		setDataDirectory(ImageDirectoryEntryResource, sectionVA, uint32(len(data))).
		build()
	img, err := NewFileImage(NewMemoryStore(buf), Options{MaxResourceDepth: 1})
	if err != nil {
		t.Fatalf("NewFileImage: %v", err)
	}

	root, ok := img.ResourceDirectory()
	if !ok {
		t.Fatalf("ResourceDirectory: not ok")
	}
	if len(root.Entries) != 1 {
		t.Fatalf("root.Entries = %+v", root.Entries)
	}
	// depth 1 is the root itself; its child directory exceeds the limit and
	// is left as its zero value rather than failing the whole walk.
	if len(root.Entries[0].Directory.Entries) != 0 {
		t.Errorf("expected the nested directory to be cut off, got %+v", root.Entries[0].Directory)
	}
}

func TestResourceTypeString(t *testing.T) {
	if got := RTManifest.String(); got != "Manifest" {
		t.Errorf("RTManifest.String() = %q, want Manifest", got)
	}
	if got := ResourceType(9999).String(); got != "" {
		t.Errorf("ResourceType(9999).String() = %q, want empty", got)
	}
}
