// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/filedata"

	"github.com/sirupsen/logrus"
)

const (
	TCBDescription = "Extract TCB images from a container file"
	TCBHelp        = TCBDescription + "\n\n" +
		"Modes:\n" +
		"  scan              search the whole file for raw and compressed TCB headers\n" +
		"  table-compressed  read a leading offset table of compressed images\n" +
		"  table-raw         read a leading offset table of raw images\n\n" +
		"Images are written as <offset>.tcb with an 8 digit hex offset."
)

// TCB modes.
const (
	tcbModeScan            = "scan"
	tcbModeTableCompressed = "table-compressed"
	tcbModeTableRaw        = "table-raw"
)

// TCB represents the `tcb` command of filedata cli tool.
type TCB struct {
	LogOptions
	FilterOptions

	FileMode     string `long:"file-mode" choice:"auto" choice:"truncate" choice:"create_only" default:"auto" description:"Output file creation policy"`
	MaxImageSize int    `long:"max-image-size" default:"10485760" description:"Largest decompressed image in bytes"`
	NoProgress   bool   `long:"no-progress" description:"Disables the progress bar"`

	Args struct {
		Mode   string `positional-arg-name:"mode" required:"yes"`
		File   string `positional-arg-name:"file" required:"yes"`
		Output string `positional-arg-name:"output-dir" required:"yes"`
	} `positional-args:"yes" required:"yes"`

	out io.Writer
}

// Execute locates and writes TCB images, it honors the go-flags.Commander interface.
func (c *TCB) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.Args.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Args.File, err)
	}

	chunks, err := locateTCB(c.Args.Mode, data)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":   c.Args.File,
		"mode":   c.Args.Mode,
		"images": len(chunks),
	}).Debug("located TCB images")

	bar := newProgressBar(output(c.out), !c.NoProgress)
	opts := filedata.TCBOptions{
		FileMode:     filedata.ExtractFileMode(c.FileMode),
		Filter:       c.rules(),
		MaxImageSize: c.MaxImageSize,
		OnChunkDone: func(p filedata.TCBProgress) {
			bar.Update(p.Index+1, p.Total)
			logrus.WithFields(logrus.Fields{
				"file":       p.Path,
				"compressed": p.Chunk.Compressed,
				"size":       p.Written,
			}).Debug("image extracted")
		},
	}

	res, err := filedata.ExtractTCB(context.Background(), data, chunks, c.Args.Output, opts)
	bar.Done()
	if err != nil {
		return fmt.Errorf("extract TCB from %s: %w", c.Args.File, err)
	}

	logrus.WithFields(logrus.Fields{
		"images":     res.Chunks,
		"compressed": res.Compressed,
		"bytes":      res.Bytes,
	}).Info("tcb extract finished")

	return nil
}

// locateTCB finds image chunks according to mode.
func locateTCB(mode string, data []byte) ([]filedata.TCBChunk, error) {
	switch mode {
	case tcbModeScan:
		return filedata.ScanTCB(data), nil
	case tcbModeTableCompressed:
		return filedata.ReadTCBIndex(data, true)
	case tcbModeTableRaw:
		return filedata.ReadTCBIndex(data, false)
	default:
		return nil, fmt.Errorf("unknown tcb mode %q, want %s, %s or %s",
			mode, tcbModeScan, tcbModeTableCompressed, tcbModeTableRaw)
	}
}
