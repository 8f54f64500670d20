// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// decodeFunc reads and decodes one element of type T starting at off,
// returning the element plus how many bytes it occupies. A decoder that
// cannot read a full element returns ok=false.
type decodeFunc[N offset, T any] func(store ByteStore, off N) (value T, size int64, ok bool)

// Cursor is a single-pass, forward-only, pull-based view over a table of
// fixed- or variable-stride records. It never materializes the whole
// table: each call to Next reads exactly one element through the
// decodeFunc it was built with. A Cursor is cheap to copy and construct,
// so every table-returning Image method builds and returns one fresh -
// there is no shared mutable iteration state to reset, which is what
// makes a Cursor restartable simply by calling the accessor again.
//
// This replaces the source's EntryRange/ReadValuePolicy/AdvancePointerPolicy/
// StopIterationPolicy template hierarchy with a single generic type driven
// by a decode closure and a stop predicate, per the redesign direction:
// four policy classes collapse into two plain Go values.
type Cursor[N offset, T any] struct {
	store   ByteStore
	decode  decodeFunc[N, T]
	next    N
	maxEnd  N
	bounded bool
	isEnd   func(T) bool
	absent  bool
	done    bool
}

// newCursor builds a Cursor reading from store starting at begin. maxEnd,
// when bounded is true, is the table's declared end: once the next element
// would start at or past it, the cursor stops without decoding. Only an
// element's start offset is checked; an element that starts before maxEnd
// is decoded in full even if it runs past it. isEnd, if non-nil, stops the cursor
// immediately after decoding the first element for which it reports true
// (a zero/sentinel terminator) - the element itself is not yielded.
func newCursor[N offset, T any](store ByteStore, begin, maxEnd N, bounded bool, isEnd func(T) bool, decode decodeFunc[N, T]) Cursor[N, T] {
	return Cursor[N, T]{
		store:   store,
		decode:  decode,
		next:    begin,
		maxEnd:  maxEnd,
		bounded: bounded,
		isEnd:   isEnd,
	}
}

// absentCursor returns a Cursor that yields nothing, for the case where
// the backing data directory is absent entirely (RVA/size both zero).
func absentCursor[N offset, T any]() Cursor[N, T] {
	return Cursor[N, T]{absent: true, done: true}
}

// Next advances the cursor and reports the element at the new position,
// plus the file/virtual offset it was read from. It returns ok=false once
// the cursor is exhausted - a short read, the bounded end, or an
// isEnd-matching sentinel - and every subsequent call keeps returning
// ok=false.
func (c *Cursor[N, T]) Next() (value Pointed[N, T], ok bool) {
	if c.absent || c.done {
		return Pointed[N, T]{}, false
	}

	if c.bounded && c.next.Value() >= c.maxEnd.Value() {
		c.done = true
		return Pointed[N, T]{}, false
	}

	v, size, readOK := c.decode(c.store, c.next)
	if !readOK {
		c.done = true
		return Pointed[N, T]{}, false
	}

	if c.isEnd != nil && c.isEnd(v) {
		c.done = true
		return Pointed[N, T]{}, false
	}

	at := c.next
	c.next = addN(c.next, size)
	return At(at, v), true
}

// Collect drains the cursor into a slice. It exists for the small,
// genuinely-bounded tables (16 data directories, a handful of section
// headers) where materializing the whole table is simpler than threading
// a cursor through calling code; it is never used for tables whose size
// is attacker-controlled without an independent bound.
func Collect[N offset, T any](c Cursor[N, T]) []Pointed[N, T] {
	var out []Pointed[N, T]
	for {
		v, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
