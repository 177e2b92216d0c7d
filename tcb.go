// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/filedata/bemanilz"
	"github.com/woozymasta/pathrules"
)

// ErrInvalidTCBIndex means a leading TCB offset table is malformed.
var ErrInvalidTCBIndex = errors.New("invalid TCB offset table")

// tcbMagic prefixes every TCB image header.
var tcbMagic = []byte("TCB")

// tcbCompressedMarkers are control bytes seen right before "TCB" in compressed images.
var tcbCompressedMarkers = [...]byte{0x10, 0x90}

// TCBChunk is one TCB image located inside a container file.
type TCBChunk struct {
	// Offset is the chunk start; compressed chunks start at their control byte.
	Offset int64 `json:"offset" yaml:"offset"`
	// Length is byte length up to the next chunk or end of data.
	Length int64 `json:"length" yaml:"length"`
	// Compressed reports whether the chunk is BemaniLZ compressed.
	Compressed bool `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// Filename returns the extracted file name of the chunk.
func (c TCBChunk) Filename() string {
	return fmt.Sprintf("%08X.tcb", c.Offset)
}

// TCBProgress contains one completed chunk event.
type TCBProgress struct {
	// Path is the written file.
	Path string `json:"path" yaml:"path"`
	// Chunk is the source chunk.
	Chunk TCBChunk `json:"chunk" yaml:"chunk"`
	// Written is number of bytes written after decompression.
	Written int64 `json:"written" yaml:"written"`
	// Index is zero-based chunk position.
	Index int `json:"index" yaml:"index"`
	// Total is number of selected chunks.
	Total int `json:"total" yaml:"total"`
}

// TCBOptions configures ExtractTCB.
type TCBOptions struct {
	// OnChunkDone is called after one chunk is written.
	OnChunkDone func(progress TCBProgress) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Filter selects chunks by output filename.
	Filter []pathrules.Rule `json:"filter,omitempty" yaml:"filter,omitempty"`
	// FilterMatcherOptions control filter rule matching.
	FilterMatcherOptions pathrules.MatcherOptions `json:"filter_matcher_options,omitzero" yaml:"filter_matcher_options,omitzero"`
	// MaxImageSize bounds one decompressed image; zero means bemanilz.DefaultOutputLimit.
	MaxImageSize int `json:"max_image_size,omitempty" yaml:"max_image_size,omitempty"`
}

// TCBResult contains ExtractTCB statistics.
type TCBResult struct {
	// Chunks is number of chunks written.
	Chunks int `json:"chunks" yaml:"chunks"`
	// Compressed is number of written chunks that were decompressed.
	Compressed int `json:"compressed,omitempty" yaml:"compressed,omitempty"`
	// Bytes is total bytes written.
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// applyDefaults fills zero-valued TCB options with defaults.
func (opts *TCBOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}

	if opts.FilterMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.FilterMatcherOptions.CaseInsensitive = true
	}

	applyFilterDefaultAction(&opts.FilterMatcherOptions, opts.Filter)
}

// ScanTCB searches data for raw ("TCB" + 8 zero bytes) and compressed
// (control byte 0x10/0x90 + "TCB") image headers.
func ScanTCB(data []byte) []TCBChunk {
	var chunks []TCBChunk
	var zeros [8]byte

	for i := 0; ; {
		idx := bytes.Index(data[i:], tcbMagic)
		if idx < 0 {
			break
		}

		pos := i + idx
		i = pos + 1

		tail := data[pos+len(tcbMagic):]
		if len(tail) >= len(zeros) && bytes.Equal(tail[:len(zeros)], zeros[:]) {
			chunks = append(chunks, TCBChunk{Offset: int64(pos)})
			continue
		}

		if pos > 0 && isTCBCompressedMarker(data[pos-1]) {
			chunks = append(chunks, TCBChunk{Offset: int64(pos - 1), Compressed: true})
		}
	}

	fillTCBLengths(chunks, int64(len(data)))
	return chunks
}

// ReadTCBIndex reads a leading table of little-endian uint32 chunk offsets.
// The first offset is also the table size, so it holds first/4 entries.
func ReadTCBIndex(data []byte, compressed bool) ([]TCBChunk, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidTCBIndex, len(data))
	}

	first := binary.LittleEndian.Uint32(data[0:4])
	if first < 4 || int64(first) > int64(len(data)) {
		return nil, fmt.Errorf("%w: first offset 0x%X in %d bytes", ErrInvalidTCBIndex, first, len(data))
	}

	count := int(first / 4)
	chunks := make([]TCBChunk, 0, count)
	prev := int64(-1)
	for i := range count {
		off := int64(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		if off == 0 {
			break
		}
		if off <= prev || off > int64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d offset 0x%X", ErrInvalidTCBIndex, i, off)
		}

		chunks = append(chunks, TCBChunk{Offset: off, Compressed: compressed})
		prev = off
	}

	fillTCBLengths(chunks, int64(len(data)))
	return chunks, nil
}

// ExtractTCB writes every selected chunk to dstDir as %08X.tcb, decompressing as needed.
func ExtractTCB(ctx context.Context, data []byte, chunks []TCBChunk, dstDir string, opts TCBOptions) (*TCBResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	filter, err := newEntryFilter(opts.Filter, opts.FilterMatcherOptions)
	if err != nil {
		return nil, err
	}

	selected := make([]TCBChunk, 0, len(chunks))
	for _, c := range chunks {
		if filter.Match(c.Filename()) {
			selected = append(selected, c)
		}
	}

	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %w", ErrIO, err)
	}

	res := &TCBResult{}
	for i, c := range selected {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		payload, err := tcbPayload(data, c, opts.MaxImageSize)
		if err != nil {
			return res, err
		}

		outPath := filepath.Join(dstDir, c.Filename())
		if err := writeExtractFile(outPath, payload, opts.FileMode); err != nil {
			return res, fmt.Errorf("%s: %w", c.Filename(), err)
		}

		res.Chunks++
		res.Bytes += int64(len(payload))
		if c.Compressed {
			res.Compressed++
		}

		if opts.OnChunkDone != nil {
			opts.OnChunkDone(TCBProgress{
				Path:    outPath,
				Chunk:   c,
				Written: int64(len(payload)),
				Index:   i,
				Total:   len(selected),
			})
		}
	}

	return res, nil
}

// tcbPayload returns raw chunk bytes or their decompressed form.
func tcbPayload(data []byte, c TCBChunk, limit int) ([]byte, error) {
	if c.Offset < 0 || c.Length < 0 || c.Offset+c.Length > int64(len(data)) {
		return nil, fmt.Errorf("%w: chunk %s out of data bounds", ErrShortRead, c.Filename())
	}

	raw := data[c.Offset : c.Offset+c.Length]
	if !c.Compressed {
		return raw, nil
	}

	out, err := bemanilz.Decompress(raw, limit)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", c.Filename(), err)
	}

	return out, nil
}

// fillTCBLengths sets each chunk length up to the next chunk start or end.
func fillTCBLengths(chunks []TCBChunk, end int64) {
	for i := range chunks {
		next := end
		if i+1 < len(chunks) {
			next = chunks[i+1].Offset
		}

		chunks[i].Length = next - chunks[i].Offset
	}
}

// isTCBCompressedMarker reports whether b may precede a compressed TCB header.
func isTCBCompressedMarker(b byte) bool {
	for _, m := range tcbCompressedMarkers {
		if b == m {
			return true
		}
	}

	return false
}
