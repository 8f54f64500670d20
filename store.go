// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"os"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
)

// ByteStore is the abstract random-access reader every Image reads
// through. It must be pure (no observable side effects), safe for
// concurrent reads from multiple goroutines, and must never panic or
// return an error on a short read: a read that runs past the end of the
// backing storage simply returns fewer bytes than requested, the same way
// io.ReaderAt signals EOF via a short count instead of an exception.
//
// Offsets are in the store's own address space: file bytes for a store
// backing a FileImage, loaded/virtual bytes for a store backing a
// VirtualImage.
type ByteStore interface {
	// Read copies up to len(dest) bytes starting at offset into dest and
	// returns how many bytes were actually copied. offset is always >= 0.
	Read(offset int64, dest []byte) (n int)
}

// MemoryStore is a ByteStore over an in-memory byte slice. This is the
// canonical bounded store: reads past len(data) are truncated to zero.
type MemoryStore struct {
	data []byte
}

// NewMemoryStore wraps a byte slice as a ByteStore. The slice is not
// copied; the caller must not mutate it while the store is in use.
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: data}
}

// Len returns the number of bytes backing the store.
func (s *MemoryStore) Len() int { return len(s.data) }

// Read implements ByteStore.
func (s *MemoryStore) Read(offset int64, dest []byte) int {
	if offset < 0 || offset >= int64(len(s.data)) {
		return 0
	}
	n := copy(dest, s.data[offset:])
	return n
}

// MappedFileStore is a ByteStore backed by a memory-mapped, read-only
// file. Grounded on file.go's use of github.com/edsrzf/mmap-go to avoid
// reading the whole executable into a buffer up front.
type MappedFileStore struct {
	f    *os.File
	data mmap.MMap
}

// OpenMappedFileStore memory-maps name read-only.
func OpenMappedFileStore(name string) (*MappedFileStore, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedFileStore{f: f, data: data}, nil
}

// Len returns the mapped file's size in bytes.
func (s *MappedFileStore) Len() int { return len(s.data) }

// Read implements ByteStore.
func (s *MappedFileStore) Read(offset int64, dest []byte) int {
	if offset < 0 || offset >= int64(len(s.data)) {
		return 0
	}
	return copy(dest, s.data[offset:])
}

// Close unmaps the file and closes the underlying descriptor.
func (s *MappedFileStore) Close() error {
	if s.data != nil {
		_ = s.data.Unmap()
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

// UnboundedStore wraps a raw pointer to memory with no known upper bound,
// such as mapped process memory where the caller guarantees the lifetime
// but the store itself cannot report a size. Reads are satisfied directly
// from the pointer; it is the caller's responsibility that the pointed-to
// region is as large as every offset the image ever dereferences (table
// sizes and sentinels are what bound real traversals - this store never
// bounds a read on its own).
type UnboundedStore struct {
	base unsafe.Pointer
}

// NewUnboundedStoreFromPointer wraps a raw memory address with no known
// upper bound. base must remain valid and readable for as long as the
// store (and any Image built on it) is used; the caller is attesting to
// that, the same way a LocalBuffer constructed from a bare pointer would.
func NewUnboundedStoreFromPointer(base unsafe.Pointer) *UnboundedStore {
	return &UnboundedStore{base: base}
}

// Read implements ByteStore. It never short-reads on its own account;
// callers rely on table sizes/sentinels to bound a traversal.
func (s *UnboundedStore) Read(offset int64, dest []byte) int {
	if len(dest) == 0 {
		return 0
	}
	src := unsafe.Slice((*byte)(unsafe.Add(s.base, offset)), len(dest))
	return copy(dest, src)
}
