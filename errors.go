// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import "errors"

// Sentinel errors for filedata operations. Use errors.Is in callers.
var (
	// ErrUnknownImage means the executable image size matches no known profile.
	ErrUnknownImage = errors.New("unknown executable image: no table profile for this size")
	// ErrInvalidProfile means a profile has zero or impossible table geometry.
	ErrInvalidProfile = errors.New("invalid table profile")
	// ErrDuplicateProfile means a profile for the same image size is already registered.
	ErrDuplicateProfile = errors.New("duplicate table profile")
	// ErrCapacityMismatch means the real entry count differs from the image's fixed slot count.
	ErrCapacityMismatch = errors.New("table entry count does not match image capacity")
	// ErrMisalignedEntry means an offset or length is not a multiple of the block size.
	ErrMisalignedEntry = errors.New("entry is not block aligned")
	// ErrSizeOverflow means a block count does not fit the 24-bit record field.
	ErrSizeOverflow = errors.New("block count exceeds 24-bit record field")
	// ErrInputNotFound means an input file named by the table is missing.
	ErrInputNotFound = errors.New("input file not found")
	// ErrIO means an underlying read, write or seek failed.
	ErrIO = errors.New("i/o failure")
	// ErrShortRead means the source ended before the requested byte range.
	ErrShortRead = errors.New("short read")
	// ErrInvalidTable means an external table is malformed.
	ErrInvalidTable = errors.New("invalid table")
	// ErrInvalidFilename means a table filename is empty or escapes its directory.
	ErrInvalidFilename = errors.New("invalid entry filename")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
)
