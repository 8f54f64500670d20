// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "errors"

// Sentinel errors carried over from the eager parser this package was
// adapted from. The header checks in NewFileImage/NewVirtualImage return
// most of them; ErrInvalidPESize, ErrImageBaseNotAligned and
// ErrOutsideBoundary are declared but not returned by this package.
var (
	ErrInvalidPESize                      = errors.New("not a valid PE file")
	ErrDOSMagicNotFound                    = errors.New("DOS Header magic not found")
	ErrInvalidElfanewValue                 = errors.New("invalid e_lfanew value")
	ErrInvalidNtHeaderOffset               = errors.New("invalid NT header offset")
	ErrImageOS2SignatureFound              = errors.New("image OS/2 signature found")
	ErrImageOS2LESignatureFound            = errors.New("image OS/2 LE signature found")
	ErrImageVXDSignatureFound              = errors.New("image VXD signature found")
	ErrImageTESignatureFound               = errors.New("image TE signature found")
	ErrImageNtSignatureNotFound            = errors.New("image NT signature not found")
	ErrImageNtOptionalHeaderMagicNotFound  = errors.New("image NT optional header magic not found")
	ErrImageBaseNotAligned                 = errors.New("corrupt PE file, invalid image base")
	ErrOutsideBoundary                     = errors.New("outside boundary")
)

// Errors introduced by the table-cursor decoders. Like the sentinels above,
// each is a fixed value compared with ==; its message names the kind of
// failure only, not the offset or field at which it occurred.
var (
	// ErrInvalidFormat is returned by NewFileImage/NewVirtualImage when the
	// byte store is too short to hold a DOS header. A DOS magic, NT
	// signature or optional header magic that is present but wrong is
	// reported with the matching sentinel above instead (ErrDOSMagicNotFound,
	// ErrImageNtSignatureNotFound, ErrImageNtOptionalHeaderMagicNotFound, ...).
	ErrInvalidFormat = errors.New("pe: invalid format")

	// ErrMalformedImage is returned when a structural invariant needed to
	// keep decoding safely is violated (for example a file or optional
	// header cut short by the end of the store, or NumberOfSections above 96).
	ErrMalformedImage = errors.New("pe: malformed image")

	// ErrInvalidOffset is returned when a computed file or virtual offset
	// is negative or otherwise cannot denote a real location in the image.
	ErrInvalidOffset = errors.New("pe: invalid offset")

	// ErrInvalidImportDirectory is returned when the import data directory
	// points at a region that cannot hold even one descriptor record.
	ErrInvalidImportDirectory = errors.New("pe: invalid import directory")

	// ErrInvalidUnwindOffset is returned when a runtime function's
	// UnwindInfoAddress cannot be translated to a readable file offset.
	ErrInvalidUnwindOffset = errors.New("pe: invalid unwind info offset")

	// ErrMalformedExport is returned when the export directory's name or
	// ordinal tables disagree with NumberOfNames/NumberOfFunctions in a way
	// that would require reading out of bounds to resolve.
	ErrMalformedExport = errors.New("pe: malformed export directory")
)
