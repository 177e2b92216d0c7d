// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"strconv"

	"github.com/woozymasta/pathrules"
)

// Binary layout of the packed file table.
const (
	// BlockSize is the alignment unit of every offset and length stored in the table.
	BlockSize = 0x800
	// RecordSize is the size of one packed table record.
	RecordSize = 8
	// maxBlocks is the largest block count a 24-bit record field can hold.
	maxBlocks = 1<<24 - 1
)

// Well-known table file names inside extract/create directories.
const (
	// TableFileName is the table consumed by create and produced by extract.
	TableFileName = "filedata.csv"
	// SortedTableFileName is the rebuilt table snapshot written by create.
	SortedTableFileName = "filedata_sorted.csv"
)

// hiddenID is the transport form of an inferred entry id.
const hiddenID = "hidden"

// FileKind classifies payload by its leading signature.
type FileKind uint8

// Known payload kinds.
const (
	// FileKindUnknown is payload without a known signature.
	FileKindUnknown FileKind = iota
	// FileKindAudio is Konami SVAG audio.
	FileKindAudio
	// FileKindVideo is Sony IPU video.
	FileKindVideo
	// FileKindImage is Konami TCB image.
	FileKindImage
	// FileKindStream is MPEG2 stream with a FrameInfo header.
	FileKindStream
)

// Extension returns the file extension used for extracted payload of this kind.
func (k FileKind) Extension() string {
	switch k {
	case FileKindAudio:
		return "svag"
	case FileKindVideo:
		return "ipu"
	case FileKindImage:
		return "tcb"
	case FileKindStream:
		return "mpeg2"
	default:
		return "bin"
	}
}

// Description returns a human-readable label for this kind.
func (k FileKind) Description() string {
	switch k {
	case FileKindAudio:
		return "Konami PS2 SVAG Audio"
	case FileKindVideo:
		return "Sony PS2 IPU Video"
	case FileKindImage:
		return "Konami TCB Image"
	case FileKindStream:
		return "MPEG2 Stream"
	default:
		return "Unknown Binary Data"
	}
}

// String returns the kind extension.
func (k FileKind) String() string {
	return k.Extension()
}

// EntryKind tells whether an entry is backed by a table slot.
type EntryKind uint8

const (
	// EntryKindTable is an entry decoded from (or destined for) a packed table slot.
	EntryKindTable EntryKind = iota + 1
	// EntryKindHidden is an inferred region not referenced by the table.
	EntryKindHidden
)

// Entry describes one byte range of the data blob.
type Entry struct {
	// Filename is the extracted file name relative to the output directory.
	Filename string `json:"filename" yaml:"filename"`
	// Description is the human-readable payload label.
	Description string `json:"description" yaml:"description"`
	// Offset is the byte offset inside the blob.
	Offset int64 `json:"offset" yaml:"offset"`
	// Length is the byte length.
	Length int64 `json:"length" yaml:"length"`
	// ID is the table slot id; meaningful only for EntryKindTable.
	ID uint16 `json:"id" yaml:"id"`
	// Kind tells table-backed entries from inferred hidden regions.
	Kind EntryKind `json:"kind" yaml:"kind"`
	// FileKind is the sniffed payload kind.
	FileKind FileKind `json:"file_kind" yaml:"file_kind"`
}

// IsHidden reports whether entry is an inferred region without a table slot.
func (e *Entry) IsHidden() bool {
	return e.Kind == EntryKindHidden
}

// IDString returns the decimal id or "hidden" for inferred regions.
func (e *Entry) IDString() string {
	if e.IsHidden() {
		return hiddenID
	}

	return strconv.FormatUint(uint64(e.ID), 10)
}

// End returns the first byte offset after the entry.
func (e *Entry) End() int64 {
	return e.Offset + e.Length
}

// newTableEntry builds a table-backed entry classified as kind.
func newTableEntry(id uint16, offset, length int64, kind FileKind) Entry {
	return Entry{
		Kind:        EntryKindTable,
		ID:          id,
		Offset:      offset,
		Length:      length,
		FileKind:    kind,
		Description: kind.Description(),
		Filename:    strconv.FormatUint(uint64(id), 10) + "." + kind.Extension(),
	}
}

// newHiddenEntry builds an inferred entry classified as kind.
func newHiddenEntry(offset, length int64, kind FileKind) Entry {
	return Entry{
		Kind:        EntryKindHidden,
		Offset:      offset,
		Length:      length,
		FileKind:    kind,
		Description: kind.Description(),
		Filename:    hiddenID + "_" + strconv.FormatInt(offset, 10) + "." + kind.Extension(),
	}
}

// EntryProgress contains one completed entry event from extract or build flow.
type EntryProgress struct {
	// Entry is the processed entry with final offset and length.
	Entry Entry `json:"entry" yaml:"entry"`
	// Path is the file read or written for this entry.
	Path string `json:"path" yaml:"path"`
	// Index is zero-based position in processing order.
	Index int `json:"index" yaml:"index"`
	// Total is number of entries scheduled for processing.
	Total int `json:"total" yaml:"total"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(progress EntryProgress) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Filter selects entries by filename; empty rule set extracts everything.
	Filter []pathrules.Rule `json:"filter,omitempty" yaml:"filter,omitempty"`
	// FilterMatcherOptions control filter rule matching.
	FilterMatcherOptions pathrules.MatcherOptions `json:"filter_matcher_options,omitzero" yaml:"filter_matcher_options,omitzero"`
}

// ExtractResult contains extract output statistics.
type ExtractResult struct {
	// Entries is the full table written to the CSV (extract flow) or given to Extract.
	Entries []Entry `json:"entries" yaml:"entries"`
	// WrittenEntries is number of files written.
	WrittenEntries int `json:"written_entries" yaml:"written_entries"`
	// SkippedEntries is number of entries rejected by filter rules.
	SkippedEntries int `json:"skipped_entries,omitempty" yaml:"skipped_entries,omitempty"`
	// HiddenEntries is number of inferred regions in Entries.
	HiddenEntries int `json:"hidden_entries,omitempty" yaml:"hidden_entries,omitempty"`
	// Bytes is total payload bytes written.
	Bytes int64 `json:"bytes" yaml:"bytes"`
	// Profile is the resolved image profile (file-based flow only).
	Profile Profile `json:"profile,omitzero" yaml:"profile,omitempty"`
}

// BuildOptions configures Build behavior.
type BuildOptions struct {
	// OnEntryDone is called after one entry payload is appended to the blob.
	OnEntryDone func(progress EntryProgress) `json:"-" yaml:"-"`
}

// BuildResult contains rebuilt table and blob statistics.
type BuildResult struct {
	// Entries is the rebuilt table in its original order.
	Entries []Entry `json:"entries" yaml:"entries"`
	// Sorted is the rebuilt table in write (offset) order.
	Sorted []Entry `json:"sorted" yaml:"sorted"`
	// DataSize is total blob bytes written including padding.
	DataSize int64 `json:"data_size" yaml:"data_size"`
	// PaddingBytes is number of zero bytes added for block alignment.
	PaddingBytes int64 `json:"padding_bytes,omitempty" yaml:"padding_bytes,omitempty"`
}

// CreateResult contains file-based create flow output.
type CreateResult struct {
	// Build is the blob rebuild result.
	Build *BuildResult `json:"build" yaml:"build"`
	// Profile is the resolved image profile.
	Profile Profile `json:"profile" yaml:"profile"`
	// SnapshotPath is the sorted table snapshot path; empty when disabled.
	SnapshotPath string `json:"snapshot_path,omitempty" yaml:"snapshot_path,omitempty"`
	// BackupPath is the image backup path; empty when disabled.
	BackupPath string `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
}

// ArchiveOptions configures file-based ExtractArchive and CreateArchive flows.
type ArchiveOptions struct {
	// Registry resolves the image profile; nil means DefaultRegistry.
	Registry *Registry `json:"-" yaml:"-"`
	// OnHidden is called for each inferred region found during extract.
	OnHidden func(entry Entry) `json:"-" yaml:"-"`
	// Extract configures the extraction step.
	Extract ExtractOptions `json:"extract,omitzero" yaml:"extract,omitzero"`
	// Build configures the blob rebuild step.
	Build BuildOptions `json:"build,omitzero" yaml:"build,omitzero"`
	// BackupKeep controls how many image backup generations are kept before table rewrite.
	// 0 disables backup, 1 keeps only `<image>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
	// SkipSnapshot disables writing the sorted table snapshot during create.
	SkipSnapshot bool `json:"skip_snapshot,omitempty" yaml:"skip_snapshot,omitempty"`
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}

	if opts.FilterMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.FilterMatcherOptions.CaseInsensitive = true
	}

	applyFilterDefaultAction(&opts.FilterMatcherOptions, opts.Filter)
}

// applyDefaults fills zero-valued archive options with defaults.
func (opts *ArchiveOptions) applyDefaults() {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}

	opts.Extract.applyDefaults()
}
