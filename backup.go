// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// backupImage copies path to `<path>.bak` after rotating older generations.
// keep follows ArchiveOptions.BackupKeep; zero does nothing.
func backupImage(path string, keep int) (string, error) {
	if keep <= 0 {
		return "", nil
	}

	backupPath := path + ".bak"
	if err := prepareBackupSlot(backupPath, keep); err != nil {
		return "", err
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("%w: backup image: %w", ErrIO, err)
	}

	return backupPath, nil
}

// prepareBackupSlot rotates/removes existing backup generations before new backup.
func prepareBackupSlot(backupPath string, keep int) error {
	switch {
	case keep <= 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// copyFile copies src to a new dst file and syncs it.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", ErrIO, from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("%w: remove %s: %w", ErrIO, path, err)
}
