// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestReadAtTranslatesVirtualOffsetOnFileImage(t *testing.T) {
	const sectionVA = 0x2000
	data := []byte("hello, pe")

	buf := newPEBuilder(false).
		addSection(".data", sectionVA, data).
		build()
	img := newTestFileImage(t, buf)

	dest := make([]byte, len(data))
	n, native, err := ReadAt[FileOffset](img, VirtualOffset(sectionVA), dest)
	if err != nil {
		t.Fatalf("ReadAt: unexpected error %v", err)
	}
	if n != len(data) || string(dest) != string(data) {
		t.Errorf("ReadAt: got %q (%d bytes), want %q", dest, n, data)
	}
	if native.Value() == int64(sectionVA) {
		t.Errorf("ReadAt: translated offset should be a file offset, not the raw RVA")
	}

	if _, _, err := ReadAt[FileOffset](img, VirtualOffset(0xdeadbeef), dest); err != ErrInvalidOffset {
		t.Errorf("ReadAt(unmapped rva): err = %v, want ErrInvalidOffset", err)
	}
}

func TestReadAtNoopWhenAlreadyNative(t *testing.T) {
	const sectionVA = 0x2000
	data := []byte("native")

	buf := newPEBuilder(false).
		addSection(".data", sectionVA, data).
		build()
	img := newTestFileImage(t, buf)

	off, ok := img.ToFileOffset(VirtualOffset(sectionVA))
	if !ok {
		t.Fatalf("ToFileOffset failed")
	}

	dest := make([]byte, len(data))
	n, native, err := ReadAt[FileOffset](img, off, dest)
	if err != nil {
		t.Fatalf("ReadAt: unexpected error %v", err)
	}
	if native != off {
		t.Errorf("ReadAt: native offset = %v, want %v unchanged", native, off)
	}
	if n != len(data) || string(dest) != string(data) {
		t.Errorf("ReadAt: got %q (%d bytes), want %q", dest, n, data)
	}
}
