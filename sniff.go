// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// SniffWindow is the largest prefix any signature inspects.
const SniffWindow = 16

// signature is one fixed byte pattern at a fixed window offset.
type signature struct {
	pattern []byte
	offset  int
	// minLength is exclusive: payload must be longer than this.
	minLength int64
	kind      FileKind
}

// signatures are checked in order; first match wins.
var signatures = []signature{
	{pattern: []byte("Svag"), offset: 0, minLength: 4, kind: FileKindAudio},
	{pattern: []byte("ipum"), offset: 0, minLength: 4, kind: FileKindVideo},
	{pattern: append([]byte("TCB"), make([]byte, 13)...), offset: 0, minLength: 16, kind: FileKindImage},
	{pattern: []byte("FrameInfo"), offset: 4, minLength: 13, kind: FileKindStream},
}

// match reports whether window holds the signature and payload is long enough for it.
func (s *signature) match(window []byte, available int64) bool {
	if available <= s.minLength {
		return false
	}

	end := s.offset + len(s.pattern)
	if len(window) < end {
		return false
	}

	return bytes.Equal(window[s.offset:end], s.pattern)
}

// Sniff classifies payload by its leading bytes.
// The window holds the first bytes of the payload, available is the full payload length.
func Sniff(window []byte, available int64) FileKind {
	for i := range signatures {
		if signatures[i].match(window, available) {
			return signatures[i].kind
		}
	}

	return FileKindUnknown
}

// SniffAt classifies the payload range [offset, offset+length) of ra.
// The window is a peek: a range cut short by the end of ra is classified on
// the bytes that exist, so a range past the end is FileKindUnknown.
// Only non-EOF read failures are returned.
func SniffAt(ra io.ReaderAt, offset, length int64) (FileKind, error) {
	if ra == nil {
		return FileKindUnknown, ErrNilReader
	}
	if length <= 0 || offset < 0 {
		return FileKindUnknown, nil
	}

	window := make([]byte, min(length, SniffWindow))
	n, err := ra.ReadAt(window, offset)
	if err != nil && n < len(window) && !errors.Is(err, io.EOF) {
		return FileKindUnknown, fmt.Errorf("%w: sniff %d+%d: %w", ErrIO, offset, len(window), err)
	}

	available := length
	if n < len(window) {
		available = int64(n)
	}

	return Sniff(window[:n], available), nil
}
