// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const (
	archiveImageSize   = 2048
	archiveTableOffset = 0x200
)

// archiveFixture holds executable and blob paths plus a registry that knows the executable.
type archiveFixture struct {
	image    string
	blob     string
	registry *Registry
	profile  Profile
}

// newArchiveFixture writes a two-entry table: id 5 at block 0, id 6 at block 2,
// with a hidden block between them and a hidden trailing block.
func newArchiveFixture(t *testing.T) archiveFixture {
	t.Helper()

	dir := t.TempDir()
	profile := Profile{Name: "fixture", ImageSize: archiveImageSize, TableOffset: archiveTableOffset, EntryCount: 2}

	image := bytes.Repeat([]byte{0xCC}, archiveImageSize)
	putTestRecord(image[archiveTableOffset:], 5, 0, 1)
	putTestRecord(image[archiveTableOffset+RecordSize:], 6, 2, 1)

	blob := make([]byte, 4*BlockSize)
	copy(blob, "Svag audio")
	copy(blob[BlockSize:], "ipum hidden video")
	copy(blob[2*BlockSize:], "raw payload")
	copy(blob[3*BlockSize:], "tail")

	f := archiveFixture{
		image:    filepath.Join(dir, "game.elf"),
		blob:     filepath.Join(dir, "filedata.bin"),
		registry: NewRegistry(),
		profile:  profile,
	}
	if err := f.registry.Register(profile); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := os.WriteFile(f.image, image, 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := os.WriteFile(f.blob, blob, 0o600); err != nil {
		t.Fatalf("write blob: %v", err)
	}

	return f
}

func TestExtractArchive(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := filepath.Join(t.TempDir(), "out")

	var hidden []string
	res, err := ExtractArchive(context.Background(), f.image, f.blob, out, ArchiveOptions{
		Registry: f.registry,
		OnHidden: func(e Entry) { hidden = append(hidden, e.Filename) },
	})
	if err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	if res.Profile.Name != "fixture" || res.WrittenEntries != 4 || res.HiddenEntries != 2 {
		t.Fatalf("result=%+v", res)
	}
	if len(hidden) != 2 || hidden[0] != "hidden_2048.ipu" || hidden[1] != "hidden_6144.bin" {
		t.Fatalf("hidden=%v", hidden)
	}

	table, err := LoadCSV(filepath.Join(out, TableFileName))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	want := []string{"5.svag", "6.bin", "hidden_2048.ipu", "hidden_6144.bin"}
	if got := filenames(table); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
		t.Fatalf("table=%v, want %v", got, want)
	}

	for _, name := range want {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestExtractArchiveUnknownImage(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := filepath.Join(t.TempDir(), "out")

	_, err := ExtractArchive(context.Background(), f.image, f.blob, out, ArchiveOptions{})
	if !errors.Is(err, ErrUnknownImage) {
		t.Fatalf("expected ErrUnknownImage, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output directory must not be created for unknown image")
	}
}

func TestCreateArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := t.TempDir()
	opts := ArchiveOptions{Registry: f.registry, BackupKeep: 1}

	origImage, _ := os.ReadFile(f.image)
	origBlob, _ := os.ReadFile(f.blob)

	if _, err := ExtractArchive(context.Background(), f.image, f.blob, out, opts); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	res, err := CreateArchive(context.Background(), f.image, f.blob, out, opts)
	if err != nil {
		t.Fatalf("CreateArchive: %v", err)
	}

	if res.Build.DataSize != int64(len(origBlob)) {
		t.Fatalf("DataSize=%d, want %d", res.Build.DataSize, len(origBlob))
	}
	if res.BackupPath != f.image+".bak" || res.SnapshotPath != filepath.Join(out, SortedTableFileName) {
		t.Fatalf("backup=%q snapshot=%q", res.BackupPath, res.SnapshotPath)
	}

	gotImage, _ := os.ReadFile(f.image)
	gotBlob, _ := os.ReadFile(f.blob)
	if !bytes.Equal(gotImage, origImage) {
		t.Fatal("unchanged extract must rebuild the same image")
	}
	if !bytes.Equal(gotBlob, origBlob) {
		t.Fatal("unchanged extract must rebuild the same blob")
	}
	if backup, _ := os.ReadFile(res.BackupPath); !bytes.Equal(backup, origImage) {
		t.Fatal("backup differs from original image")
	}

	sorted, err := LoadCSV(res.SnapshotPath)
	if err != nil {
		t.Fatalf("LoadCSV snapshot: %v", err)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Offset >= sorted[i].Offset {
			t.Fatalf("snapshot not sorted at %d: %+v", i, sorted)
		}
	}
}

func TestCreateArchiveGrownEntry(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := t.TempDir()
	opts := ArchiveOptions{Registry: f.registry, SkipSnapshot: true}

	if _, err := ExtractArchive(context.Background(), f.image, f.blob, out, opts); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	grown := append([]byte("Svag"), bytes.Repeat([]byte{7}, 3000)...)
	if err := os.WriteFile(filepath.Join(out, "5.svag"), grown, 0o600); err != nil {
		t.Fatalf("write grown entry: %v", err)
	}

	res, err := CreateArchive(context.Background(), f.image, f.blob, out, opts)
	if err != nil {
		t.Fatalf("CreateArchive: %v", err)
	}
	if res.SnapshotPath != "" || res.BackupPath != "" {
		t.Fatalf("snapshot=%q backup=%q, want none", res.SnapshotPath, res.BackupPath)
	}
	if res.Build.DataSize != 5*BlockSize {
		t.Fatalf("DataSize=%d, want %d", res.Build.DataSize, 5*BlockSize)
	}

	image, err := os.Open(f.image)
	if err != nil {
		t.Fatalf("open image: %v", err)
	}
	defer func() { _ = image.Close() }()

	records, err := DecodeRecords(image, f.profile)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}

	want := []Record{
		{ID: 5, OffsetBlocks: 0, LengthBlocks: 2},
		{ID: 6, OffsetBlocks: 3, LengthBlocks: 1},
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("record[%d]=%+v, want %+v", i, records[i], want[i])
		}
	}

	blob, _ := os.ReadFile(f.blob)
	if !bytes.Equal(blob[:len(grown)], grown) || !bytes.Equal(blob[3*BlockSize:3*BlockSize+11], []byte("raw payload")) {
		t.Fatal("rebuilt blob layout mismatch")
	}
}

func TestCreateArchiveCapacityMismatch(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := t.TempDir()
	opts := ArchiveOptions{Registry: f.registry}

	if _, err := ExtractArchive(context.Background(), f.image, f.blob, out, opts); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	table, err := LoadCSV(filepath.Join(out, TableFileName))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	table = append(table, newTableEntry(99, 0x4000, 0x800, FileKindUnknown))
	if err := SaveCSV(filepath.Join(out, TableFileName), table); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	origImage, _ := os.ReadFile(f.image)
	origBlob, _ := os.ReadFile(f.blob)

	if _, err := CreateArchive(context.Background(), f.image, f.blob, out, opts); !errors.Is(err, ErrCapacityMismatch) {
		t.Fatalf("expected ErrCapacityMismatch, got %v", err)
	}

	gotImage, _ := os.ReadFile(f.image)
	gotBlob, _ := os.ReadFile(f.blob)
	if !bytes.Equal(gotImage, origImage) || !bytes.Equal(gotBlob, origBlob) {
		t.Fatal("capacity mismatch must not touch image or blob")
	}
}

func TestCreateArchiveMissingInput(t *testing.T) {
	t.Parallel()

	f := newArchiveFixture(t)
	out := t.TempDir()
	opts := ArchiveOptions{Registry: f.registry}

	if _, err := ExtractArchive(context.Background(), f.image, f.blob, out, opts); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}
	if err := os.Remove(filepath.Join(out, "6.bin")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	origImage, _ := os.ReadFile(f.image)
	if _, err := CreateArchive(context.Background(), f.image, f.blob, out, opts); !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}

	gotImage, _ := os.ReadFile(f.image)
	if !bytes.Equal(gotImage, origImage) {
		t.Fatal("failed create must not rewrite the image table")
	}
}
