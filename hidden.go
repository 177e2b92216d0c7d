// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"fmt"
	"io"
	"sort"
)

// DetectHidden finds blob ranges not covered by any entry and returns them
// as hidden entries in ascending offset order. Each region is sniffed at its start.
// A trailing region ending at blobSize is reported even for empty tables.
// Gaps are measured from the furthest end covered so far, so space between
// entries nested inside an earlier, longer entry is not reported.
func DetectHidden(entries []Entry, blob io.ReaderAt, blobSize int64) ([]Entry, error) {
	sorted := sortedByOffset(entries)

	var (
		hidden  []Entry
		covered int64
	)
	for i := range sorted {
		if i > 0 && sorted[i].Offset > covered {
			entry, err := sniffHidden(blob, covered, sorted[i].Offset-covered)
			if err != nil {
				return nil, err
			}

			hidden = append(hidden, entry)
		}

		// Aliased or overlapping entries only ever extend coverage.
		if i == 0 || sorted[i].End() > covered {
			covered = sorted[i].End()
		}
	}

	if covered < blobSize {
		entry, err := sniffHidden(blob, covered, blobSize-covered)
		if err != nil {
			return nil, err
		}

		hidden = append(hidden, entry)
	}

	return hidden, nil
}

// AppendHidden returns entries followed by detected hidden regions.
func AppendHidden(entries []Entry, blob io.ReaderAt, blobSize int64) ([]Entry, error) {
	hidden, err := DetectHidden(entries, blob, blobSize)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries)+len(hidden))
	out = append(out, entries...)
	return append(out, hidden...), nil
}

// sniffHidden classifies one gap and builds its hidden entry.
func sniffHidden(blob io.ReaderAt, offset, length int64) (Entry, error) {
	kind, err := SniffAt(blob, offset, length)
	if err != nil {
		return Entry{}, fmt.Errorf("sniff hidden region at %d: %w", offset, err)
	}

	return newHiddenEntry(offset, length, kind), nil
}

// sortedByOffset returns a copy of entries stable-sorted by offset.
func sortedByOffset(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	return sorted
}
