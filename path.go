// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolveEntryPath joins a table filename to root and rejects names that leave it.
// Table filenames are flat; one path segment is expected but nested relative paths are accepted.
func resolveEntryPath(root, filename string) (string, error) {
	name, err := normalizeEntryFilename(filename)
	if err != nil {
		return "", err
	}

	return filepath.Join(root, filepath.FromSlash(name)), nil
}

// normalizeEntryFilename normalizes filename and rejects absolute/traversal inputs.
func normalizeEntryFilename(filename string) (string, error) {
	raw := strings.TrimSpace(filename)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFilename)
	}
	if strings.ContainsRune(raw, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive prefix like C: or C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 2 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
