// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bytes"
	"errors"
	"testing"
)

func TestSniff(t *testing.T) {
	t.Parallel()

	tcb := append([]byte("TCB"), make([]byte, 13)...)
	frame := append([]byte{0, 0, 0, 1}, []byte("FrameInfo")...)

	tests := []struct {
		name      string
		window    []byte
		available int64
		want      FileKind
	}{
		{name: "svag", window: []byte("Svag\x00\x01"), available: 0x800, want: FileKindAudio},
		{name: "svag too short", window: []byte("Svag"), available: 4, want: FileKindUnknown},
		{name: "svag five bytes", window: []byte("Svag!"), available: 5, want: FileKindAudio},
		{name: "ipum", window: []byte("ipum0000"), available: 8, want: FileKindVideo},
		{name: "tcb", window: tcb, available: 17, want: FileKindImage},
		{name: "tcb exactly sixteen", window: tcb, available: 16, want: FileKindUnknown},
		{name: "tcb nonzero padding", window: []byte("TCB\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x01"), available: 64, want: FileKindUnknown},
		{name: "frameinfo", window: frame, available: 14, want: FileKindStream},
		{name: "frameinfo thirteen", window: frame, available: 13, want: FileKindUnknown},
		{name: "truncated window", window: []byte("Sva"), available: 0x800, want: FileKindUnknown},
		{name: "random", window: []byte("\x7fELF\x01\x01"), available: 0x800, want: FileKindUnknown},
		{name: "empty", window: nil, available: 0, want: FileKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sniff(tt.window, tt.available); got != tt.want {
				t.Fatalf("Sniff=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestSniffAt(t *testing.T) {
	t.Parallel()

	blob := make([]byte, 0x1000)
	copy(blob[0x800:], "ipum")

	kind, err := SniffAt(bytes.NewReader(blob), 0x800, 0x800)
	if err != nil {
		t.Fatalf("SniffAt: %v", err)
	}
	if kind != FileKindVideo {
		t.Fatalf("kind=%v, want %v", kind, FileKindVideo)
	}

	kind, err = SniffAt(bytes.NewReader(blob), 0, 0)
	if err != nil {
		t.Fatalf("SniffAt zero length: %v", err)
	}
	if kind != FileKindUnknown {
		t.Fatalf("zero length kind=%v, want unknown", kind)
	}

	copy(blob[0x1000-8:], "Svag")
	kind, err = SniffAt(bytes.NewReader(blob), 0x1000-8, 0x800)
	if err != nil {
		t.Fatalf("SniffAt cut by blob end: %v", err)
	}
	if kind != FileKindAudio {
		t.Fatalf("cut by blob end kind=%v, want %v", kind, FileKindAudio)
	}

	kind, err = SniffAt(bytes.NewReader(blob), 0x2000, 0x800)
	if err != nil {
		t.Fatalf("SniffAt past blob end: %v", err)
	}
	if kind != FileKindUnknown {
		t.Fatalf("past blob end kind=%v, want unknown", kind)
	}

	boom := errors.New("boom")
	if _, err := SniffAt(failingReaderAt{err: boom}, 0, 0x800); !errors.Is(err, ErrIO) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrIO wrapping cause, got %v", err)
	}
}

func TestFileKindNames(t *testing.T) {
	t.Parallel()

	want := map[FileKind][2]string{
		FileKindUnknown: {"bin", "Unknown Binary Data"},
		FileKindAudio:   {"svag", "Konami PS2 SVAG Audio"},
		FileKindVideo:   {"ipu", "Sony PS2 IPU Video"},
		FileKindImage:   {"tcb", "Konami TCB Image"},
		FileKindStream:  {"mpeg2", "MPEG2 Stream"},
	}

	for kind, names := range want {
		if got := kind.Extension(); got != names[0] {
			t.Fatalf("%d extension=%q, want %q", kind, got, names[0])
		}
		if got := kind.Description(); got != names[1] {
			t.Fatalf("%d description=%q, want %q", kind, got, names[1])
		}
	}
}
