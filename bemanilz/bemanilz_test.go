// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package bemanilz

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecompress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{
			name: "literals",
			src:  []byte{0x00, 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 0x01, 0xFF},
			want: []byte("ABCDEFGH"),
		},
		{
			name: "short copy",
			src:  []byte{0x06, 'A', 0x80, 0xFF},
			want: []byte("AAA"),
		},
		{
			name: "long copy",
			src:  []byte{0x0C, 'A', 'B', 0x00, 0x02, 0xFF},
			want: []byte("ABABA"),
		},
		{
			name: "literal block",
			src:  []byte{0x03, 0xC0, 1, 2, 3, 4, 5, 6, 7, 8, 0xFF},
			want: []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name: "zero window",
			src:  []byte{0x03, 0x00, 0x05, 0xFF},
			want: []byte{0, 0, 0},
		},
		{
			name: "end only",
			src:  []byte{0x01, 0xFF},
			want: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decompress(tt.src, 0)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("Decompress=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecompressWindowWraps(t *testing.T) {
	t.Parallel()

	// 0x400 literals in 128 control groups fill the window once.
	var src []byte
	var want []byte
	for i := 0; i < 0x400; i++ {
		if i%8 == 0 {
			src = append(src, 0x00)
		}
		b := byte(i * 7)
		src = append(src, b)
		want = append(want, b)
	}

	// Long copy with distance 0 reads the slot about to be overwritten: the byte written 1 KiB ago.
	src = append(src, 0x03, 0x00, 0x00, 0xFF)
	want = append(want, want[0], want[1], want[2])

	got, err := Decompress(src, 0)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Decompress tail=%v, want %v", got[len(got)-3:], want[len(want)-3:])
	}
}

func TestDecompressErrors(t *testing.T) {
	t.Parallel()

	if _, err := Decompress(nil, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("empty: expected ErrTruncated, got %v", err)
	}

	if _, err := Decompress([]byte{0x00, 'A'}, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("no end marker: expected ErrTruncated, got %v", err)
	}

	if _, err := Decompress([]byte{0x01, 0x00}, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("cut long copy: expected ErrTruncated, got %v", err)
	}

	if _, err := Decompress([]byte{0x01, 0xC4, 'a'}, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("cut literal block: expected ErrTruncated, got %v", err)
	}

	src := []byte{0x00, 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 0x01, 0xFF}
	if _, err := Decompress(src, 4); !errors.Is(err, ErrOutputLimit) {
		t.Fatalf("expected ErrOutputLimit, got %v", err)
	}
	if got, err := Decompress(src, 8); err != nil || string(got) != "ABCDEFGH" {
		t.Fatalf("exact limit: %q, %v", got, err)
	}
}

func TestConsumed(t *testing.T) {
	t.Parallel()

	stream := []byte{0x06, 'A', 0x80, 0xFF}
	src := append(append([]byte{}, stream...), 0x99, 0x99)

	n, err := Consumed(src, 0)
	if err != nil {
		t.Fatalf("Consumed: %v", err)
	}
	if n != len(stream) {
		t.Fatalf("Consumed=%d, want %d", n, len(stream))
	}
}
