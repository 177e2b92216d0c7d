// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/woozymasta/filedata"

	"github.com/sirupsen/logrus"
)

const (
	ExtractDescription = "Extract filedata.bin using the file table in the executable"
	ExtractHelp        = ExtractDescription + "\n\n" +
		"Writes filedata.csv and one file per table entry into the output\n" +
		"directory. Blob regions the table does not reference are extracted\n" +
		"as hidden_<offset>.<ext> and listed with id \"hidden\"."
)

// Extract represents the `extract` command of filedata cli tool.
type Extract struct {
	LogOptions
	ProfileOptions
	FilterOptions

	FileMode   string `long:"file-mode" choice:"auto" choice:"truncate" choice:"create_only" default:"auto" description:"Output file creation policy"`
	NoProgress bool   `long:"no-progress" description:"Disables the progress bar"`

	Args struct {
		Image  string `positional-arg-name:"executable" required:"yes"`
		Blob   string `positional-arg-name:"filedata" required:"yes"`
		Output string `positional-arg-name:"output-dir" required:"yes"`
	} `positional-args:"yes" required:"yes"`

	out io.Writer
}

// Execute extracts the archive, it honors the go-flags.Commander interface.
func (c *Extract) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	registry, err := c.registry()
	if err != nil {
		return err
	}

	bar := newProgressBar(output(c.out), !c.NoProgress)
	opts := filedata.ArchiveOptions{
		Registry: registry,
		OnHidden: func(e filedata.Entry) {
			logrus.WithFields(logrus.Fields{
				"offset": e.Offset,
				"length": e.Length,
				"file":   e.Filename,
			}).Info("found hidden data")
		},
		Extract: filedata.ExtractOptions{
			FileMode: filedata.ExtractFileMode(c.FileMode),
			Filter:   c.rules(),
			OnEntryDone: func(p filedata.EntryProgress) {
				bar.Update(p.Index+1, p.Total)
				logrus.WithField("file", p.Path).Debug("entry extracted")
			},
		},
	}

	res, err := filedata.ExtractArchive(context.Background(), c.Args.Image, c.Args.Blob, c.Args.Output, opts)
	bar.Done()
	if err != nil {
		return fmt.Errorf("extract %s: %w", c.Args.Blob, err)
	}

	logrus.WithFields(logrus.Fields{
		"profile": res.Profile.Name,
		"entries": len(res.Entries),
		"hidden":  res.HiddenEntries,
		"written": res.WrittenEntries,
		"skipped": res.SkippedEntries,
		"bytes":   res.Bytes,
	}).Info("extract finished")

	return nil
}
