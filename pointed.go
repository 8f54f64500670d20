// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// Pointed pairs a decoded value with the offset at which it was read, in
// the native address space of the image that produced it (FileOffset for
// a FileImage, VirtualOffset for a VirtualImage). Callers chase references
// - the RVA of an exported function, say - by carrying the Offset of the
// slot that held it alongside the decoded Value.
//
// The original C++ source special-cased integral T with a composition
// shape and used inheritance for everything else; Go has no inheritance,
// so every T uses the same composed shape here.
type Pointed[N offset, T any] struct {
	Value  T
	Offset N
}

// At is a convenience constructor.
func At[N offset, T any](offset N, value T) Pointed[N, T] {
	return Pointed[N, T]{Value: value, Offset: offset}
}
