// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

// Package bemanilz decodes the Konami "BemaniLZ" LZ77 variant used by compressed TCB images.
//
// The stream is a sequence of tokens selected by control bits (LSB first, 8 per control byte):
//   - bit 0: literal byte;
//   - bit 1, token 0bbbbbaa dddddddd: copy (b+3) bytes from 10-bit distance aa:dddddddd;
//   - bit 1, token 10lldddd: copy (l+2) bytes from distance d+1;
//   - bit 1, token 11llllll: copy (token-0xB8) literal bytes from input;
//   - bit 1, token 0xFF: end of stream.
//
// Window copies read a 1 KiB ring buffer that starts zero-filled.
package bemanilz

import (
	"errors"
	"fmt"
)

const (
	windowSize = 0x400
	windowMask = windowSize - 1
)

// DefaultOutputLimit bounds output when caller passes no limit.
const DefaultOutputLimit = 10 * 1024 * 1024

var (
	// ErrTruncated means input ended before the end-of-stream token.
	ErrTruncated = errors.New("bemanilz: truncated input")
	// ErrOutputLimit means decoded output exceeds caller limit.
	ErrOutputLimit = errors.New("bemanilz: output exceeds limit")
)

type decoder struct {
	src    []byte
	out    []byte
	pos    int
	limit  int
	wpos   int
	window [windowSize]byte
}

// Decompress decodes src. Output larger than limit fails with ErrOutputLimit;
// limit <= 0 means DefaultOutputLimit.
func Decompress(src []byte, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultOutputLimit
	}

	d := &decoder{
		src:   src,
		limit: limit,
		out:   make([]byte, 0, min(len(src)*2, limit)),
	}
	if err := d.run(); err != nil {
		return nil, err
	}

	return d.out, nil
}

// Consumed reports how many input bytes a complete stream at the start of src occupies.
func Consumed(src []byte, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultOutputLimit
	}

	d := &decoder{src: src, limit: limit}
	if err := d.run(); err != nil {
		return 0, err
	}

	return d.pos, nil
}

func (d *decoder) run() error {
	var control uint32
	for {
		control >>= 1
		if control < 0x100 {
			b, err := d.next()
			if err != nil {
				return err
			}
			control = uint32(b) | 0xFF00
		}

		data, err := d.next()
		if err != nil {
			return err
		}

		if control&1 == 0 {
			if err := d.emit(data); err != nil {
				return err
			}
			continue
		}

		switch {
		case data&0x80 == 0:
			lo, err := d.next()
			if err != nil {
				return err
			}

			distance := int(lo) | int(data&0x3)<<8
			if err := d.copyWindow(distance, int(data>>2)+3); err != nil {
				return err
			}
		case data&0x40 == 0:
			distance := int(data&0xF) + 1
			if err := d.copyWindow(distance, int(data>>4)-6); err != nil {
				return err
			}
		case data == 0xFF:
			return nil
		default:
			if err := d.copyLiterals(int(data) - 0xB8); err != nil {
				return err
			}
		}
	}
}

func (d *decoder) next() (byte, error) {
	if d.pos >= len(d.src) {
		return 0, fmt.Errorf("%w at input offset %d", ErrTruncated, d.pos)
	}

	b := d.src[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) emit(b byte) error {
	if d.wpos >= d.limit {
		return fmt.Errorf("%w (%d bytes)", ErrOutputLimit, d.limit)
	}

	if d.out != nil {
		d.out = append(d.out, b)
	}
	d.window[d.wpos&windowMask] = b
	d.wpos++
	return nil
}

func (d *decoder) copyWindow(distance, n int) error {
	for range n {
		if err := d.emit(d.window[(d.wpos-distance)&windowMask]); err != nil {
			return err
		}
	}

	return nil
}

func (d *decoder) copyLiterals(n int) error {
	for range n {
		b, err := d.next()
		if err != nil {
			return err
		}
		if err := d.emit(b); err != nil {
			return err
		}
	}

	return nil
}
