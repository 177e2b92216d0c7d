// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bytes"
	"testing"
)

func TestDetectHidden(t *testing.T) {
	t.Parallel()

	entry := func(id uint16, off, length int64) Entry {
		return newTableEntry(id, off, length, FileKindUnknown)
	}

	tests := []struct {
		name     string
		entries  []Entry
		blobSize int64
		want     [][2]int64
	}{
		{
			name:     "gap between entries",
			entries:  []Entry{entry(1, 0, 0x800), entry(2, 0x1000, 0x800)},
			blobSize: 0x1800,
			want:     [][2]int64{{0x800, 0x800}},
		},
		{
			name:     "gap and trailing region",
			entries:  []Entry{entry(1, 0, 0x800), entry(2, 0x1000, 0x800)},
			blobSize: 0x2000,
			want:     [][2]int64{{0x800, 0x800}, {0x1800, 0x800}},
		},
		{
			name:     "contiguous",
			entries:  []Entry{entry(1, 0, 0x800), entry(2, 0x800, 0x800)},
			blobSize: 0x1000,
		},
		{
			name:     "unsorted table",
			entries:  []Entry{entry(2, 0x1800, 0x800), entry(1, 0, 0x800)},
			blobSize: 0x2000,
			want:     [][2]int64{{0x800, 0x1000}},
		},
		{
			name:     "empty table",
			blobSize: 0x800,
			want:     [][2]int64{{0, 0x800}},
		},
		{
			name:     "single entry with trailing region",
			entries:  []Entry{entry(1, 0, 0x800)},
			blobSize: 0x1000,
			want:     [][2]int64{{0x800, 0x800}},
		},
		{
			name:     "single entry exact",
			entries:  []Entry{entry(1, 0, 0x800)},
			blobSize: 0x800,
		},
		{
			name:     "leading region is not reported",
			entries:  []Entry{entry(1, 0x800, 0x800)},
			blobSize: 0x1000,
		},
		{
			name:     "overlapping entries",
			entries:  []Entry{entry(1, 0, 0x1000), entry(2, 0x800, 0x800), entry(3, 0x1800, 0x800)},
			blobSize: 0x2000,
			want:     [][2]int64{{0x1000, 0x800}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blob := bytes.NewReader(make([]byte, tt.blobSize))
			hidden, err := DetectHidden(tt.entries, blob, tt.blobSize)
			if err != nil {
				t.Fatalf("DetectHidden: %v", err)
			}

			if len(hidden) != len(tt.want) {
				t.Fatalf("hidden len=%d, want %d: %+v", len(hidden), len(tt.want), hidden)
			}
			for i, w := range tt.want {
				h := hidden[i]
				if !h.IsHidden() {
					t.Fatalf("hidden[%d] kind=%d, want hidden", i, h.Kind)
				}
				if h.Offset != w[0] || h.Length != w[1] {
					t.Fatalf("hidden[%d]=%d+%d, want %d+%d", i, h.Offset, h.Length, w[0], w[1])
				}
			}
		})
	}
}

func TestDetectHiddenSniffsRegion(t *testing.T) {
	t.Parallel()

	data := make([]byte, 0x1800)
	copy(data[0x800:], "Svag")

	entries := []Entry{
		newTableEntry(1, 0, 0x800, FileKindUnknown),
		newTableEntry(2, 0x1000, 0x800, FileKindUnknown),
	}

	hidden, err := DetectHidden(entries, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectHidden: %v", err)
	}
	if len(hidden) != 1 {
		t.Fatalf("hidden len=%d, want 1", len(hidden))
	}

	h := hidden[0]
	if h.Filename != "hidden_2048.svag" || h.FileKind != FileKindAudio || h.IDString() != "hidden" {
		t.Fatalf("hidden=%+v, want hidden_2048.svag audio", h)
	}
	if h.Description != "Konami PS2 SVAG Audio" {
		t.Fatalf("Description=%q", h.Description)
	}

	// Input order is untouched.
	if entries[0].ID != 1 || entries[1].ID != 2 {
		t.Fatal("DetectHidden reordered its input")
	}
}

func TestAppendHidden(t *testing.T) {
	t.Parallel()

	entries := []Entry{newTableEntry(5, 0x800, 0x800, FileKindUnknown)}
	data := make([]byte, 0x2000)

	all, err := AppendHidden(entries, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("AppendHidden: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len=%d, want 2", len(all))
	}
	if all[0].ID != 5 || !all[1].IsHidden() || all[1].Offset != 0x1000 || all[1].Length != 0x1000 {
		t.Fatalf("AppendHidden=%+v", all)
	}
}
