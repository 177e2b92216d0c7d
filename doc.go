// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

/*
Package filedata extracts and rebuilds the filedata.bin archive of
DDR MAX / Extreme era PS2 titles. The blob has no index of its own; its
file table is a fixed array of 8-byte records packed inside the game
executable at a build-specific offset.

Record layout (little-endian):
  - bytes 0..1: uint16 id;
  - bytes 2..4: 24-bit offset in 0x800 blocks;
  - bytes 5..7: 24-bit length in 0x800 blocks.

The executable build is identified by its exact byte size only; see
Registry and DefaultRegistry. Extra builds can be registered from YAML
with LoadProfiles.

# Extracting

	res, err := filedata.ExtractArchive(ctx, "game.elf", "filedata.bin", "out", filedata.ArchiveOptions{})
	if err != nil {
	    return err
	}
	_ = res.WrittenEntries

Extraction writes out/filedata.csv, then one file per table entry named
{id}.{ext}, plus hidden_{offset}.{ext} for blob regions the table does
not reference. Extensions come from a fixed signature sniff (svag, ipu,
tcb, mpeg2, bin).

Select entries by filename:

	opts := filedata.ArchiveOptions{
	    Extract: filedata.ExtractOptions{
	        Filter: []pathrules.Rule{
	            {Action: pathrules.ActionInclude, Pattern: "*.svag"},
	        },
	    },
	}

# Creating

	res, err := filedata.CreateArchive(ctx, "game.elf", "filedata.bin", "out", filedata.ArchiveOptions{
	    BackupKeep: 1,
	})
	if err != nil {
	    return err
	}
	_ = res.Build.DataSize

Create reads out/filedata.csv, concatenates the named files in offset
order with every length rounded up to 0x800, rewrites the table window
of the executable in place and writes out/filedata_sorted.csv.
Hidden rows are packed into the blob but never get a table slot.

# TCB images

ScanTCB and ReadTCBIndex locate TCB images inside extracted payloads;
ExtractTCB writes them out, decompressing BemaniLZ chunks with package
bemanilz.
*/
package filedata
