// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"errors"
	"fmt"
	"io"
)

// ReadRange reads exactly length bytes at offset.
// It fails with ErrShortRead when source ends inside the range.
func ReadRange(ra io.ReaderAt, offset, length int64) ([]byte, error) {
	if ra == nil {
		return nil, ErrNilReader
	}
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("%w: negative range %d+%d", ErrIO, offset, length)
	}

	buf := make([]byte, length)
	if length == 0 {
		return buf, nil
	}

	n, err := ra.ReadAt(buf, offset)
	if n == len(buf) {
		// ReaderAt may report io.EOF together with a complete read.
		return buf, nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: range %d+%d, got %d bytes", ErrShortRead, offset, length, n)
	}

	return nil, fmt.Errorf("%w: read range %d+%d: %w", ErrIO, offset, length, err)
}

// AlignBlock rounds size up to the next multiple of BlockSize.
func AlignBlock(size int64) int64 {
	if size <= 0 {
		return 0
	}

	return (size + BlockSize - 1) / BlockSize * BlockSize
}

// isBlockAligned reports whether value is a non-negative multiple of BlockSize.
func isBlockAligned(value int64) bool {
	return value >= 0 && value%BlockSize == 0
}
