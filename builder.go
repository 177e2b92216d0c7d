// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
)

// buildWriterBufferSize is buffered writer size used for blob output.
const buildWriterBufferSize = 1024 * 1024

// zeroBlock is the padding source; padding never exceeds one block.
var zeroBlock [BlockSize]byte

// Build concatenates inputDir/Filename of every entry into out and returns the rebuilt table.
//
// Write order is the entries' current offset order. Each length becomes the input file size
// rounded up to BlockSize and the payload is zero padded to it. Offsets are then laid out
// contiguously from zero in write order, so gaps of the source table disappear.
// A failure leaves whatever was already written in out.
func Build(ctx context.Context, out io.Writer, entries []Entry, inputDir string, opts BuildOptions) (*BuildResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rebuilt := make([]Entry, len(entries))
	copy(rebuilt, entries)
	order := writeOrder(rebuilt)

	w := bufio.NewWriterSize(out, buildWriterBufferSize)
	res := &BuildResult{}

	for i, idx := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := &rebuilt[idx]
		inPath, err := resolveEntryPath(inputDir, entry.Filename)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.IDString(), err)
		}

		data, err := readInputFile(inPath)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.IDString(), err)
		}

		entry.Length = AlignBlock(int64(len(data)))
		padding := entry.Length - int64(len(data))
		if entry.Length/BlockSize > maxBlocks {
			return nil, fmt.Errorf("%w: entry %s length %d", ErrSizeOverflow, entry.IDString(), entry.Length)
		}

		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: write payload %s: %w", ErrIO, entry.Filename, err)
		}
		if _, err := w.Write(zeroBlock[:padding]); err != nil {
			return nil, fmt.Errorf("%w: write padding %s: %w", ErrIO, entry.Filename, err)
		}

		entry.Offset = res.DataSize
		res.DataSize += entry.Length
		res.PaddingBytes += padding

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(EntryProgress{
				Entry: *entry,
				Path:  inPath,
				Index: i,
				Total: len(order),
			})
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("%w: flush blob: %w", ErrIO, err)
	}

	res.Entries = rebuilt
	res.Sorted = make([]Entry, 0, len(order))
	for _, idx := range order {
		res.Sorted = append(res.Sorted, rebuilt[idx])
	}

	return res, nil
}

// writeOrder returns entry indexes stable-sorted by current offset.
func writeOrder(entries []Entry) []int {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return entries[order[i]].Offset < entries[order[j]].Offset
	})

	return order
}

// readInputFile reads one input payload and maps missing files to ErrInputNotFound.
func readInputFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	return data, nil
}
