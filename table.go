// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Record is one packed table record as stored in the image.
type Record struct {
	// ID is the table slot id.
	ID uint16 `json:"id" yaml:"id"`
	// OffsetBlocks is the payload offset in BlockSize units (24-bit).
	OffsetBlocks uint32 `json:"offset_blocks" yaml:"offset_blocks"`
	// LengthBlocks is the payload length in BlockSize units (24-bit).
	LengthBlocks uint32 `json:"length_blocks" yaml:"length_blocks"`
}

// Offset returns record offset in bytes.
func (r Record) Offset() int64 {
	return int64(r.OffsetBlocks) * BlockSize
}

// Length returns record length in bytes.
func (r Record) Length() int64 {
	return int64(r.LengthBlocks) * BlockSize
}

// DecodeRecords reads the packed record window described by profile.
func DecodeRecords(image io.ReaderAt, p Profile) ([]Record, error) {
	if p.EntryCount <= 0 {
		return nil, fmt.Errorf("%w: %q entry count %d", ErrInvalidProfile, p.Name, p.EntryCount)
	}

	raw, err := ReadRange(image, p.TableOffset, p.TableSize())
	if err != nil {
		return nil, fmt.Errorf("read table of %q: %w", p.Name, err)
	}

	return decodeRecords(raw), nil
}

// decodeRecords splits raw window into fixed 8-byte records.
func decodeRecords(raw []byte) []Record {
	records := make([]Record, 0, len(raw)/RecordSize)
	for off := 0; off+RecordSize <= len(raw); off += RecordSize {
		rec := raw[off : off+RecordSize]
		records = append(records, Record{
			ID:           binary.LittleEndian.Uint16(rec[0:2]),
			OffsetBlocks: getUint24(rec[2:5]),
			LengthBlocks: getUint24(rec[5:8]),
		})
	}

	return records
}

// ReadTable decodes the image table and sniffs every entry payload in blob.
func ReadTable(image, blob io.ReaderAt, p Profile) ([]Entry, error) {
	if blob == nil {
		return nil, ErrNilReader
	}

	records, err := DecodeRecords(image, p)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		kind, err := SniffAt(blob, rec.Offset(), rec.Length())
		if err != nil {
			return nil, fmt.Errorf("sniff entry %d at %d: %w", rec.ID, rec.Offset(), err)
		}

		entries = append(entries, newTableEntry(rec.ID, rec.Offset(), rec.Length(), kind))
	}

	return entries, nil
}

// EncodeRecords packs table-backed entries into the record window.
// Hidden entries are dropped; the remaining count must equal profile capacity.
func EncodeRecords(entries []Entry, p Profile) ([]byte, error) {
	table := TableEntries(entries)
	if len(table) != p.EntryCount {
		return nil, fmt.Errorf("%w: image %q holds %d entries, table has %d",
			ErrCapacityMismatch, p.Name, p.EntryCount, len(table))
	}

	raw := make([]byte, len(table)*RecordSize)
	for i := range table {
		rec, err := entryRecord(&table[i])
		if err != nil {
			return nil, err
		}

		off := i * RecordSize
		binary.LittleEndian.PutUint16(raw[off:off+2], rec.ID)
		putUint24(raw[off+2:off+5], rec.OffsetBlocks)
		putUint24(raw[off+5:off+8], rec.LengthBlocks)
	}

	return raw, nil
}

// WriteTable rewrites the record window of image in place.
// Validation happens before any write; bytes outside the window are untouched.
func WriteTable(image io.WriterAt, entries []Entry, p Profile) error {
	if image == nil {
		return ErrNilWriter
	}

	raw, err := EncodeRecords(entries, p)
	if err != nil {
		return err
	}

	n, err := image.WriteAt(raw, p.TableOffset)
	if err != nil {
		return fmt.Errorf("%w: write table of %q: %w", ErrIO, p.Name, err)
	}
	if n != len(raw) {
		return fmt.Errorf("%w: write table of %q: %w", ErrIO, p.Name, io.ErrShortWrite)
	}

	return nil
}

// TableEntries returns entries backed by a table slot, preserving order.
func TableEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if entries[i].IsHidden() {
			continue
		}

		out = append(out, entries[i])
	}

	return out
}

// entryRecord converts byte offset/length to block counts with range checks.
func entryRecord(e *Entry) (Record, error) {
	if !isBlockAligned(e.Offset) {
		return Record{}, fmt.Errorf("%w: entry %s offset %d", ErrMisalignedEntry, e.IDString(), e.Offset)
	}
	if !isBlockAligned(e.Length) {
		return Record{}, fmt.Errorf("%w: entry %s length %d", ErrMisalignedEntry, e.IDString(), e.Length)
	}

	offsetBlocks := e.Offset / BlockSize
	lengthBlocks := e.Length / BlockSize
	if offsetBlocks > maxBlocks {
		return Record{}, fmt.Errorf("%w: entry %s offset %d", ErrSizeOverflow, e.IDString(), e.Offset)
	}
	if lengthBlocks > maxBlocks {
		return Record{}, fmt.Errorf("%w: entry %s length %d", ErrSizeOverflow, e.IDString(), e.Length)
	}

	return Record{
		ID:           e.ID,
		OffsetBlocks: uint32(offsetBlocks), //nolint:gosec // bounded by maxBlocks check above
		LengthBlocks: uint32(lengthBlocks), //nolint:gosec // bounded by maxBlocks check above
	}, nil
}

// getUint24 decodes 3-byte little-endian unsigned value.
func getUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// putUint24 encodes 3-byte little-endian unsigned value.
func putUint24(b []byte, v uint32) {
	_ = b[2]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
