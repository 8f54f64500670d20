// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

//go:build linux

package pe

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ProcessMemoryStore is a ByteStore reading a live process's address space
// through /proc/<pid>/mem, for inspecting a PE image already mapped into a
// running Wine or cross-loaded process without dumping it to disk first.
// Offsets are whatever the caller's VirtualImage already treats as its
// address space - usually the module's load base plus an RVA.
type ProcessMemoryStore struct {
	f *os.File
}

// OpenProcessMemoryStore opens /proc/pid/mem for reading. The caller must
// hold ptrace access to pid (same-uid child, or CAP_SYS_PTRACE); opening
// the file does not itself attach, but Pread against a process that never
// granted access fails at read time.
func OpenProcessMemoryStore(pid int) (*ProcessMemoryStore, error) {
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &ProcessMemoryStore{f: f}, nil
}

// Read implements ByteStore. A read that runs off the end of a mapped
// region, or lands in an unmapped page, is reported by the kernel as an
// I/O error; that collapses to a short read here per the store contract.
func (s *ProcessMemoryStore) Read(offset int64, dest []byte) int {
	n, err := unix.Pread(int(s.f.Fd()), dest, offset)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Close closes the underlying /proc/pid/mem descriptor.
func (s *ProcessMemoryStore) Close() error {
	return s.f.Close()
}
