// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvHeader is the fixed column order of the external table.
var csvHeader = []string{"id", "offset", "length", "filename", "description"}

// WriteCSV writes header and one row per entry, in table order.
func WriteCSV(w io.Writer, entries []Entry) error {
	if w == nil {
		return ErrNilWriter
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: write table header: %w", ErrIO, err)
	}

	for i := range entries {
		e := &entries[i]
		row := []string{
			e.IDString(),
			strconv.FormatInt(e.Offset, 10),
			strconv.FormatInt(e.Length, 10),
			e.Filename,
			e.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: write table row %d: %w", ErrIO, i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush table: %w", ErrIO, err)
	}

	return nil
}

// ReadCSV parses entries written by WriteCSV. The header row is required.
// FileKind is restored from the filename extension.
func ReadCSV(r io.Reader) ([]Entry, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidTable, err)
	}
	if err := checkCSVHeader(header); err != nil {
		return nil, err
	}

	var entries []Entry
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}

		entry, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidTable, line, err)
		}

		entries = append(entries, entry)
	}
}

// SaveCSV writes entries to path, creating parent directories.
func SaveCSV(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: create table dir: %w", ErrIO, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: create table: %w", ErrIO, err)
	}

	if err := WriteCSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close table: %w", ErrIO, err)
	}

	return nil
}

// LoadCSV reads entries from path.
func LoadCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}

		return nil, fmt.Errorf("%w: open table: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

// checkCSVHeader requires the exact column order.
func checkCSVHeader(header []string) error {
	for i := range csvHeader {
		// Tolerate UTF-8 BOM left by spreadsheet editors.
		name := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if name != csvHeader[i] {
			return fmt.Errorf("%w: header column %d is %q, want %q", ErrInvalidTable, i, header[i], csvHeader[i])
		}
	}

	return nil
}

// parseCSVRow converts one row into an entry.
func parseCSVRow(row []string) (Entry, error) {
	offset, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil || offset < 0 {
		return Entry{}, fmt.Errorf("offset %q", row[1])
	}

	length, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
	if err != nil || length < 0 {
		return Entry{}, fmt.Errorf("length %q", row[2])
	}

	entry := Entry{
		Kind:        EntryKindTable,
		Offset:      offset,
		Length:      length,
		Filename:    row[3],
		Description: row[4],
		FileKind:    fileKindByFilename(row[3]),
	}

	id := strings.TrimSpace(row[0])
	if id == hiddenID {
		entry.Kind = EntryKindHidden
		return entry, nil
	}

	value, err := strconv.ParseUint(id, 10, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("id %q", row[0])
	}

	entry.ID = uint16(value)
	return entry, nil
}

// fileKindByFilename maps extracted filename extension back to its kind.
func fileKindByFilename(filename string) FileKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for i := range signatures {
		if signatures[i].kind.Extension() == ext {
			return signatures[i].kind
		}
	}

	return FileKindUnknown
}
