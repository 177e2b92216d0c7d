// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExtractArchive reads the table from imagePath, adds hidden regions of blobPath,
// writes outDir/filedata.csv and extracts every entry into outDir.
// The image profile is resolved from the image size before any file is opened.
func ExtractArchive(ctx context.Context, imagePath, blobPath, outDir string, opts ArchiveOptions) (*ExtractResult, error) {
	opts.applyDefaults()

	profile, err := opts.Registry.LookupFile(imagePath)
	if err != nil {
		return nil, err
	}

	entries, err := LoadTable(imagePath, blobPath, profile, opts.OnHidden)
	if err != nil {
		return nil, err
	}

	if err := SaveCSV(filepath.Join(outDir, TableFileName), entries); err != nil {
		return nil, err
	}

	blob, err := os.Open(blobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open blob: %w", ErrIO, err)
	}
	defer func() { _ = blob.Close() }()

	res, err := Extract(ctx, blob, entries, outDir, opts.Extract)
	if res != nil {
		res.Profile = profile
	}

	return res, err
}

// LoadTable reads the image table, sniffs entries in the blob and appends hidden regions.
// onHidden, when set, is called for every detected hidden region.
func LoadTable(imagePath, blobPath string, profile Profile, onHidden func(Entry)) ([]Entry, error) {
	image, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open image: %w", ErrIO, err)
	}
	defer func() { _ = image.Close() }()

	blob, err := os.Open(blobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open blob: %w", ErrIO, err)
	}
	defer func() { _ = blob.Close() }()

	fi, err := blob.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat blob: %w", ErrIO, err)
	}

	entries, err := ReadTable(image, blob, profile)
	if err != nil {
		return nil, err
	}

	hidden, err := DetectHidden(entries, blob, fi.Size())
	if err != nil {
		return nil, err
	}

	if onHidden != nil {
		for _, h := range hidden {
			onHidden(h)
		}
	}

	return append(entries, hidden...), nil
}

// CreateArchive rebuilds blobPath from inDir/filedata.csv and the files it names,
// then rewrites the table inside imagePath.
//
// Capacity is checked before the blob is touched. A failure while building leaves
// a partially written blob; the image is only written after the blob is complete.
func CreateArchive(ctx context.Context, imagePath, blobPath, inDir string, opts ArchiveOptions) (*CreateResult, error) {
	opts.applyDefaults()

	profile, err := opts.Registry.LookupFile(imagePath)
	if err != nil {
		return nil, err
	}

	entries, err := LoadCSV(filepath.Join(inDir, TableFileName))
	if err != nil {
		return nil, err
	}

	if n := len(TableEntries(entries)); n != profile.EntryCount {
		return nil, fmt.Errorf("%w: image %q holds %d entries, table has %d",
			ErrCapacityMismatch, profile.Name, profile.EntryCount, n)
	}

	build, err := buildBlobFile(ctx, blobPath, entries, inDir, opts.Build)
	if err != nil {
		return nil, err
	}

	res := &CreateResult{Build: build, Profile: profile}
	if !opts.SkipSnapshot {
		res.SnapshotPath = filepath.Join(inDir, SortedTableFileName)
		if err := SaveCSV(res.SnapshotPath, build.Sorted); err != nil {
			return nil, err
		}
	}

	res.BackupPath, err = backupImage(imagePath, opts.BackupKeep)
	if err != nil {
		return nil, err
	}

	if err := writeImageTable(imagePath, build.Entries, profile); err != nil {
		return nil, err
	}

	return res, nil
}

// buildBlobFile truncates blobPath and writes the rebuilt blob into it.
func buildBlobFile(ctx context.Context, blobPath string, entries []Entry, inDir string, opts BuildOptions) (*BuildResult, error) {
	f, err := os.OpenFile(blobPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create blob: %w", ErrIO, err)
	}

	res, err := Build(ctx, f, entries, inDir, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: sync blob: %w", ErrIO, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: close blob: %w", ErrIO, err)
	}

	return res, nil
}

// writeImageTable opens image read-write and rewrites its table window.
func writeImageTable(imagePath string, entries []Entry, profile Profile) error {
	f, err := os.OpenFile(imagePath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open image: %w", ErrIO, err)
	}

	if err := WriteTable(f, entries, profile); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync image: %w", ErrIO, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close image: %w", ErrIO, err)
	}

	return nil
}
