// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"

	"github.com/lazype/pe/log"
)

// Options configures an Image. Unlike the eager parser this package was
// adapted from, there is very little to configure - reads are pulled on
// demand, so a caller already controls how far any given cursor is walked.
// What remains mirrors a conventional Options struct: an injected logger,
// and a cap guarding the one table this package does walk recursively.
type Options struct {
	// Logger receives recoverable decode problems (a directory that could
	// not be translated, a cursor that hit a malformed entry) at Warn or
	// Error level. Nil disables logging.
	Logger log.Logger

	// MaxResourceDepth bounds ResourceDirectory.Entries recursion, so a
	// maliciously self-referential resource tree cannot recurse forever.
	// Zero means defaultMaxResourceDepth.
	MaxResourceDepth int
}

const defaultMaxResourceDepth = 16

// Image is a read-only, lazy view over a PE/COFF container. N fixes
// whether offsets the image hands back name positions in the on-disk
// layout (FileOffset) or the loaded/virtual layout (VirtualOffset); the
// two concrete instantiations are FileImage and VirtualImage.
//
// The header block (DOS header, NT headers, section table) is small,
// fixed in count, and needed by nearly every other operation, so it is
// decoded once in New*Image rather than lazily; every other table
// (imports, exports, relocations, resources, ...) is reached only through
// a Cursor built on demand.
type Image[N offset] struct {
	store ByteStore
	opts  Options
	log   *log.Helper
	is64  bool

	dos            ImageDOSHeader
	dosOffset      N
	ntOffset       N
	fileHeader     ImageFileHeader
	fileHeaderOff  N
	optHeader32    ImageOptionalHeader32
	optHeader64    ImageOptionalHeader64
	optHeaderOff   N
	sections       []ImageSectionHeader
	sectionsOffset N
}

// FileImage is an Image addressed in on-disk file bytes.
type FileImage = Image[FileOffset]

// VirtualImage is an Image addressed in loaded/virtual bytes (an RVA of 0
// denotes the image base).
type VirtualImage = Image[VirtualOffset]

// NewFileImage decodes the header block of store as a file-offset-addressed
// image: DOS header, NT headers, and the section table.
func NewFileImage(store ByteStore, opts Options) (*FileImage, error) {
	return newImage[FileOffset](store, opts)
}

// NewVirtualImage decodes the header block of store as a
// virtual-offset-addressed image, for a store backing a loaded module
// (ProcessMemoryStore, or any ByteStore whose offset 0 is the image base).
func NewVirtualImage(store ByteStore, opts Options) (*VirtualImage, error) {
	return newImage[VirtualOffset](store, opts)
}

// NewBytesFileImage wraps data in a MemoryStore and decodes it as a
// FileImage; a convenience for the common case of an in-memory executable.
func NewBytesFileImage(data []byte, opts Options) (*FileImage, error) {
	return NewFileImage(NewMemoryStore(data), opts)
}

func newImage[N offset](store ByteStore, opts Options) (*Image[N], error) {
	if opts.MaxResourceDepth <= 0 {
		opts.MaxResourceDepth = defaultMaxResourceDepth
	}
	img := &Image[N]{
		store: store,
		opts:  opts,
		log:   log.NewHelper(opts.Logger),
	}

	var zero N
	if !unpack(img.store, zero, sizeOfDOSHeader, &img.dos) {
		return nil, ErrInvalidFormat
	}
	if img.dos.Magic != ImageDOSSignature && img.dos.Magic != ImageDOSZMSignature {
		return nil, ErrDOSMagicNotFound
	}
	if img.dos.AddressOfNewEXEHeader < 4 {
		return nil, ErrInvalidElfanewValue
	}
	img.dosOffset = zero
	img.ntOffset = offsetFromUint32[N](img.dos.AddressOfNewEXEHeader)

	var signature [4]byte
	if !unpack(img.store, img.ntOffset, 4, &signature) {
		return nil, ErrInvalidNtHeaderOffset
	}
	sig := uint32(signature[0]) | uint32(signature[1])<<8 | uint32(signature[2])<<16 | uint32(signature[3])<<24
	switch sig & 0xFFFF {
	case ImageOS2Signature:
		return nil, ErrImageOS2SignatureFound
	case ImageOS2LESignature:
		return nil, ErrImageOS2LESignatureFound
	case ImageVXDSignature:
		return nil, ErrImageVXDSignatureFound
	case ImageTESignature:
		return nil, ErrImageTESignatureFound
	}
	if sig != ImageNTSignature {
		return nil, ErrImageNtSignatureNotFound
	}

	img.fileHeaderOff = addN[N](img.ntOffset, 4)
	if !unpack(img.store, img.fileHeaderOff, sizeOfFileHeader, &img.fileHeader) {
		return nil, ErrMalformedImage
	}

	img.optHeaderOff = addN[N](img.fileHeaderOff, sizeOfFileHeader)
	magic, ok := readAt(img.store, img.optHeaderOff, 2)
	if !ok {
		return nil, ErrMalformedImage
	}
	switch uint16(magic[0]) | uint16(magic[1])<<8 {
	case ImageNtOptionalHeader64Magic:
		img.is64 = true
		if !unpack(img.store, img.optHeaderOff, sizeOfOptionalHeader64, &img.optHeader64) {
			return nil, ErrMalformedImage
		}
	case ImageNtOptionalHeader32Magic:
		if !unpack(img.store, img.optHeaderOff, sizeOfOptionalHeader32, &img.optHeader32) {
			return nil, ErrMalformedImage
		}
	default:
		return nil, ErrImageNtOptionalHeaderMagicNotFound
	}

	img.sectionsOffset = addN[N](img.optHeaderOff, int64(img.fileHeader.SizeOfOptionalHeader))
	n := int(img.fileHeader.NumberOfSections)
	if n < 0 || n > 96 {
		return nil, ErrMalformedImage
	}
	img.sections = make([]ImageSectionHeader, 0, n)
	at := img.sectionsOffset
	for i := 0; i < n; i++ {
		var sh ImageSectionHeader
		if !unpack(img.store, at, sizeOfSectionHeader, &sh) {
			img.log.Warnf("section header %d: short read at %s", i, at)
			break
		}
		img.sections = append(img.sections, sh)
		at = addN[N](at, sizeOfSectionHeader)
	}

	return img, nil
}

// Is64 reports whether the image carries a PE32+ optional header.
func (img *Image[N]) Is64() bool { return img.is64 }

// DOSHeader returns the decoded MS-DOS stub header.
func (img *Image[N]) DOSHeader() Pointed[N, ImageDOSHeader] {
	return At(img.dosOffset, img.dos)
}

// FileHeader returns the decoded COFF file header.
func (img *Image[N]) FileHeader() Pointed[N, ImageFileHeader] {
	return At(img.fileHeaderOff, img.fileHeader)
}

// OptionalHeader returns the decoded optional header, as whichever of
// ImageOptionalHeader32/64 the image actually carries.
func (img *Image[N]) OptionalHeader() Pointed[N, OptionalHeader] {
	if img.is64 {
		return At[N, OptionalHeader](img.optHeaderOff, img.optHeader64)
	}
	return At[N, OptionalHeader](img.optHeaderOff, img.optHeader32)
}

// Sections returns the section table. Sections are few and fixed-count by
// construction (NumberOfSections is a uint16 validated against a sane
// ceiling at parse time), so unlike every other table in this package they
// are returned as a plain slice rather than a Cursor.
func (img *Image[N]) Sections() []ImageSectionHeader {
	return img.sections
}

// Machine classifies FileHeader.Machine into the handful of architectures
// most callers branch on; the raw wire value is always available via
// img.FileHeader().Value.Machine for finer distinctions.
type Machine int

// Recognized machine classes.
const (
	MachineUnknown Machine = iota
	MachineI386
	MachineIA64
	MachineAMD64
)

// Machine classifies the image's target architecture.
func (img *Image[N]) Machine() Machine {
	switch img.fileHeader.Machine {
	case ImageFileMachineI386:
		return MachineI386
	case ImageFileMachineIA64:
		return MachineIA64
	case ImageFileMachineAMD64:
		return MachineAMD64
	default:
		return MachineUnknown
	}
}

// EntryPoint returns the image's AddressOfEntryPoint as a virtual offset.
func (img *Image[N]) EntryPoint() VirtualOffset {
	if img.is64 {
		return VirtualOffset(int64(img.optHeader64.AddressOfEntryPoint))
	}
	return VirtualOffset(int64(img.optHeader32.AddressOfEntryPoint))
}

// dataDirectory returns the i'th data directory slot, or the zero value if
// i is out of range or the optional header doesn't carry that many.
func (img *Image[N]) dataDirectory(i int) DataDirectory {
	if img.is64 {
		return img.optHeader64.DataDirectoryAt(i)
	}
	return img.optHeader32.DataDirectoryAt(i)
}

// DataDirectory returns the i'th data directory slot and whether it is
// present (RVA and size not both zero).
func (img *Image[N]) DataDirectory(i int) (DataDirectory, bool) {
	dd := img.dataDirectory(i)
	if dd.VirtualAddress == 0 && dd.Size == 0 {
		return DataDirectory{}, false
	}
	return dd, true
}

// tableBounds resolves directory index i to a native begin offset and the
// directory's declared byte size, translating the RVA through the section
// table when N is FileOffset. ok is false when the directory is absent or
// its RVA cannot be translated.
func (img *Image[N]) tableBounds(i int) (begin N, size uint32, ok bool) {
	dd, present := img.DataDirectory(i)
	if !present {
		return begin, 0, false
	}
	begin, ok = rvaToOffset[N](dd.VirtualAddress, img.sections)
	if !ok {
		img.log.Warnf("directory %d: rva 0x%x does not resolve to any section", i, dd.VirtualAddress)
		return begin, 0, false
	}
	return begin, dd.Size, true
}

// ToFileOffset translates a virtual offset (RVA) to a file offset via the
// section table. ok is false when v falls outside every section and
// outside the identity-mapped header block.
func (img *Image[N]) ToFileOffset(v VirtualOffset) (FileOffset, bool) {
	if v.Value() < 0 || v.Value() > 0xFFFFFFFF {
		return 0, false
	}
	return fileOffsetFromRVA(uint32(v.Value()), img.sections)
}

// ToVirtualOffset translates a file offset to a virtual offset (RVA) via
// the section table.
func (img *Image[N]) ToVirtualOffset(f FileOffset) (VirtualOffset, bool) {
	if f.Value() < 0 || f.Value() > 0xFFFFFFFF {
		return 0, false
	}
	rva, ok := rvaFromFileOffset(uint32(f.Value()), img.sections)
	if !ok {
		return 0, false
	}
	return VirtualOffset(int64(rva)), true
}

// Read copies up to len(dest) bytes from the image's own address space
// starting at off, the same short-read-on-truncation contract as
// ByteStore.Read.
func (img *Image[N]) Read(off N, dest []byte) int {
	if off.Value() < 0 {
		return 0
	}
	return img.store.Read(off.Value(), dest)
}

// toNative converts an offset of either flavour to the image's own native
// flavour N. M and N are independently constrained (offset's type set has
// exactly two members), so when off isn't already an N, its concrete type
// pins which conversion direction applies; boxing through any lets that
// dynamic check stand in for the generic method a type switch can't name.
func toNative[N offset, M offset](img *Image[N], off M) (N, bool) {
	if n, ok := any(off).(N); ok {
		return n, true
	}
	switch v := any(off).(type) {
	case FileOffset:
		vo, ok := img.ToVirtualOffset(v)
		if !ok {
			var zero N
			return zero, false
		}
		return any(vo).(N), true
	case VirtualOffset:
		fo, ok := img.ToFileOffset(v)
		if !ok {
			var zero N
			return zero, false
		}
		return any(fo).(N), true
	}
	var zero N
	return zero, false
}

// ReadAt translates off into the image's native address space via
// ToFileOffset/ToVirtualOffset (a no-op when off is already that flavour)
// and delegates to Read, returning the number of bytes copied and the
// offset the read actually happened at. Offsets that do not translate -
// an RVA outside any section, or a file offset a VirtualImage can't map
// back to an RVA - are reported as ErrInvalidOffset rather than silently
// read as zero bytes.
func ReadAt[N offset, M offset](img *Image[N], off M, dest []byte) (int, N, error) {
	native, ok := toNative(img, off)
	if !ok {
		var zero N
		return 0, zero, ErrInvalidOffset
	}
	return img.Read(native, dest), native, nil
}

// ReadCString reads a NUL-terminated ASCII/UTF-8 string starting at off.
// It grows its read buffer geometrically (10 bytes, then x1.5) instead of
// reading one byte at a time, stopping at the first embedded NUL or after
// maxLen bytes, whichever comes first; maxLen<=0 means a 1MiB ceiling.
func (img *Image[N]) ReadCString(off N, maxLen int) (string, bool) {
	if maxLen <= 0 {
		maxLen = 1 << 20
	}
	var out []byte
	chunkLen := 10
	pos := off.Value()
	for len(out) < maxLen {
		chunk := make([]byte, chunkLen)
		n := img.store.Read(pos, chunk)
		if n == 0 {
			break
		}
		if i := bytes.IndexByte(chunk[:n], 0); i >= 0 {
			out = append(out, chunk[:i]...)
			if len(out) > maxLen {
				out = out[:maxLen]
			}
			return string(out), true
		}
		out = append(out, chunk[:n]...)
		pos += int64(n)
		if n < chunkLen {
			break
		}
		chunkLen += chunkLen / 2
	}
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return string(out), len(out) > 0
}

// ReadUTF16 reads `units` little-endian UTF-16 code units starting at off
// and decodes them to a Go string, via golang.org/x/text/encoding/unicode
// - used for resource directory names and other Pascal-style wide strings
// that carry their own length instead of being NUL-terminated.
func (img *Image[N]) ReadUTF16(off N, units int) (string, bool) {
	raw, ok := readAt(img.store, off, units*2)
	if !ok {
		return "", false
	}
	s, err := decodeUTF16LE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}
