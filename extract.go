// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// extractWorkItem stores one selected entry with its resolved output path.
type extractWorkItem struct {
	outPath string
	entry   Entry
}

// Extract copies every selected entry range of blob into dstDir/Filename, in table order.
// The first failure aborts remaining entries; files already written are kept.
func Extract(ctx context.Context, blob io.ReaderAt, entries []Entry, dstDir string, opts ExtractOptions) (*ExtractResult, error) {
	if blob == nil {
		return nil, ErrNilReader
	}

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	selected, err := FilterEntries(entries, opts.Filter, opts.FilterMatcherOptions)
	if err != nil {
		return nil, err
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve output dir: %w", ErrIO, err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %w", ErrIO, err)
	}

	workItems, err := prepareExtractWorkItems(dstRootAbs, selected)
	if err != nil {
		return nil, err
	}

	res := &ExtractResult{
		Entries:        entries,
		SkippedEntries: len(entries) - len(workItems),
		HiddenEntries:  countHidden(entries),
	}

	for i, task := range workItems {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := extractEntry(blob, task, opts.FileMode); err != nil {
			return res, err
		}

		res.WrittenEntries++
		res.Bytes += task.entry.Length

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(EntryProgress{
				Entry: task.entry,
				Path:  task.outPath,
				Index: i,
				Total: len(workItems),
			})
		}
	}

	return res, nil
}

// prepareExtractWorkItems resolves output paths for selected entries.
func prepareExtractWorkItems(dstRootAbs string, entries []Entry) ([]extractWorkItem, error) {
	workItems := make([]extractWorkItem, 0, len(entries))
	for _, entry := range entries {
		outPath, err := resolveEntryPath(dstRootAbs, entry.Filename)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.IDString(), err)
		}

		workItems = append(workItems, extractWorkItem{
			entry:   entry,
			outPath: outPath,
		})
	}

	return workItems, nil
}

// extractEntry reads one entry range in bulk and writes it in one call.
func extractEntry(blob io.ReaderAt, task extractWorkItem, fileMode ExtractFileMode) error {
	data, err := ReadRange(blob, task.entry.Offset, task.entry.Length)
	if err != nil {
		return fmt.Errorf("read %s: %w", task.entry.Filename, err)
	}

	if err := writeExtractFile(task.outPath, data, fileMode); err != nil {
		return fmt.Errorf("%s: %w", task.entry.Filename, err)
	}

	return nil
}

// writeExtractFile creates parent directories and writes data to path in one call.
func writeExtractFile(path string, data []byte, fileMode ExtractFileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: create output directory %s: %w", ErrIO, dir, err)
		}
	}

	file, err := openExtractFile(path, fileMode)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ErrIO, err)
	}

	n, writeErr := file.Write(data)
	if writeErr == nil && n != len(data) {
		writeErr = io.ErrShortWrite
	}

	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("%w: write: %w", ErrIO, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("%w: close: %w", ErrIO, closeErr)
	}

	return nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, nil
		}

		if !os.IsExist(err) {
			return nil, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// countHidden returns number of inferred entries.
func countHidden(entries []Entry) int {
	n := 0
	for i := range entries {
		if entries[i].IsHidden() {
			n++
		}
	}

	return n
}
