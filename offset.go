// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "fmt"

// FileOffset is a byte distance within the on-disk layout of a PE image.
//
// FileOffset and VirtualOffset are kept as distinct types on purpose: the
// two address spaces are frequently numerically different (a section's
// raw data rarely starts at the same byte as its virtual address) and
// silently mixing them up is the single most common class of bug when
// hand-rolling PE parsing. Conversion between the two always goes through
// ToFileOffset/ToVirtualOffset, which consult the section table.
type FileOffset int64

// VirtualOffset is a byte distance from the loaded image base (an RVA).
type VirtualOffset int64

// Add returns o+n.
func (o FileOffset) Add(n int64) FileOffset { return o + FileOffset(n) }

// Sub returns the signed distance between two file offsets.
func (o FileOffset) Sub(other FileOffset) int64 { return int64(o - other) }

// Value returns the underlying signed distance.
func (o FileOffset) Value() int64 { return int64(o) }

func (o FileOffset) String() string { return fmt.Sprintf("file+0x%x", int64(o)) }

// Add returns o+n.
func (o VirtualOffset) Add(n int64) VirtualOffset { return o + VirtualOffset(n) }

// Sub returns the signed distance between two virtual offsets.
func (o VirtualOffset) Sub(other VirtualOffset) int64 { return int64(o - other) }

// Value returns the underlying signed distance.
func (o VirtualOffset) Value() int64 { return int64(o) }

func (o VirtualOffset) String() string { return fmt.Sprintf("rva+0x%x", int64(o)) }

// offset is implemented by FileOffset and VirtualOffset so the generic
// table cursor (cursor.go) and the structural decoders can be written once
// and used from either flavour of image. Value is listed explicitly so it
// can be called on a bare type-parameter value; Add/Sub return the
// concrete receiver type and so can't be expressed the same way - addN
// below covers those through the union's shared core type instead.
type offset interface {
	FileOffset | VirtualOffset
	Value() int64
}

// addN advances an offset of either flavour by n bytes. Both FileOffset
// and VirtualOffset share the underlying type int64, so the type
// parameter's core type is int64 and this conversion round trip is all
// that's needed - no per-flavour branch.
func addN[N offset](o N, n int64) N {
	return N(int64(o) + n)
}
