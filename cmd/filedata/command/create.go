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
	CreateDescription = "Create filedata.bin and update the file table in the executable"
	CreateHelp        = CreateDescription + "\n\n" +
		"Reads filedata.csv from the input directory, packs the files it\n" +
		"names with 0x800 alignment and rewrites the table inside the\n" +
		"executable. The executable is backed up to <executable>.bak first\n" +
		"unless --backup-keep is 0."
)

// Create represents the `create` command of filedata cli tool.
type Create struct {
	LogOptions
	ProfileOptions

	BackupKeep int  `long:"backup-keep" default:"1" description:"Executable backup generations to keep, 0 disables backup"`
	NoSnapshot bool `long:"no-snapshot" description:"Do not write filedata_sorted.csv"`
	NoProgress bool `long:"no-progress" description:"Disables the progress bar"`

	Args struct {
		Image string `positional-arg-name:"executable" required:"yes"`
		Blob  string `positional-arg-name:"filedata" required:"yes"`
		Input string `positional-arg-name:"input-dir" required:"yes"`
	} `positional-args:"yes" required:"yes"`

	out io.Writer
}

// Execute rebuilds the archive, it honors the go-flags.Commander interface.
func (c *Create) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	registry, err := c.registry()
	if err != nil {
		return err
	}

	bar := newProgressBar(output(c.out), !c.NoProgress)
	opts := filedata.ArchiveOptions{
		Registry:     registry,
		BackupKeep:   c.BackupKeep,
		SkipSnapshot: c.NoSnapshot,
		Build: filedata.BuildOptions{
			OnEntryDone: func(p filedata.EntryProgress) {
				bar.Update(p.Index+1, p.Total)
				logrus.WithFields(logrus.Fields{
					"file":   p.Path,
					"offset": p.Entry.Offset,
					"length": p.Entry.Length,
				}).Debug("entry packed")
			},
		},
	}

	res, err := filedata.CreateArchive(context.Background(), c.Args.Image, c.Args.Blob, c.Args.Input, opts)
	bar.Done()
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Args.Blob, err)
	}

	fields := logrus.Fields{
		"profile": res.Profile.Name,
		"entries": len(res.Build.Entries),
		"size":    res.Build.DataSize,
		"padding": res.Build.PaddingBytes,
	}
	if res.BackupPath != "" {
		fields["backup"] = res.BackupPath
	}
	if res.SnapshotPath != "" {
		fields["snapshot"] = res.SnapshotPath
	}
	logrus.WithFields(fields).Info("create finished")

	return nil
}
