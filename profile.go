// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Profile locates the packed table inside one exact build of the executable image.
type Profile struct {
	// Name is a human-readable build label.
	Name string `json:"name" yaml:"name"`
	// ImageSize is the exact executable size in bytes; it is the registry key.
	ImageSize int64 `json:"image_size" yaml:"image_size"`
	// TableOffset is the byte offset of the first packed record.
	TableOffset int64 `json:"table_offset" yaml:"table_offset"`
	// EntryCount is the fixed number of packed records.
	EntryCount int `json:"entry_count" yaml:"entry_count"`
}

// TableSize returns byte size of the packed record window.
func (p Profile) TableSize() int64 {
	return int64(p.EntryCount) * RecordSize
}

// validate checks that profile geometry is usable.
func (p Profile) validate() error {
	if p.ImageSize <= 0 {
		return fmt.Errorf("%w: %q image size %d", ErrInvalidProfile, p.Name, p.ImageSize)
	}
	if p.EntryCount <= 0 {
		return fmt.Errorf("%w: %q entry count %d", ErrInvalidProfile, p.Name, p.EntryCount)
	}
	if p.TableOffset < 0 || p.TableOffset+p.TableSize() > p.ImageSize {
		return fmt.Errorf("%w: %q table 0x%X+%d outside image of %d bytes",
			ErrInvalidProfile, p.Name, p.TableOffset, p.TableSize(), p.ImageSize)
	}

	return nil
}

// knownProfiles lists builds with a verified table location.
var knownProfiles = []Profile{
	{Name: "MAX JP", ImageSize: 0x176C2C, TableOffset: 0x175B18, EntryCount: 374},
	{Name: "MAX US", ImageSize: 0x19D568, TableOffset: 0x168320, EntryCount: 577},
	{Name: "MAX 2 JP", ImageSize: 0x1DAC88, TableOffset: 0x17DDE8, EntryCount: 675},
	{Name: "MAX 2 US", ImageSize: 0x265854, TableOffset: 0x1A0810, EntryCount: 795},
	{Name: "MAX 2 E3 Demo US", ImageSize: 0x12A608, TableOffset: 0x1842F0, EntryCount: 223},
	{Name: "Extreme JP", ImageSize: 2672124, TableOffset: 0x1B3130, EntryCount: 656},
	{Name: "Extreme E3 Demo US", ImageSize: 3871008, TableOffset: 0x17C880, EntryCount: 680},
	{Name: "Party Collection JP", ImageSize: 2725576, TableOffset: 0x1A1548, EntryCount: 459},
}

// Registry maps exact image sizes to table profiles.
type Registry struct {
	bySize map[int64]Profile
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bySize: make(map[int64]Profile)}
}

// DefaultRegistry returns a new registry holding every known build.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range knownProfiles {
		r.bySize[p.ImageSize] = p
	}

	return r
}

// Register adds one profile and fails on duplicate image size.
func (r *Registry) Register(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.validate(); err != nil {
		return err
	}

	if existing, ok := r.bySize[p.ImageSize]; ok {
		return fmt.Errorf("%w: size %d already registered as %q", ErrDuplicateProfile, p.ImageSize, existing.Name)
	}

	r.bySize[p.ImageSize] = p
	return nil
}

// RegisterAll adds profiles in order and stops on the first failure.
func (r *Registry) RegisterAll(profiles []Profile) error {
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns the profile registered for exact image size.
func (r *Registry) Lookup(imageSize int64) (Profile, error) {
	if r != nil {
		if p, ok := r.bySize[imageSize]; ok {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("%w: %d bytes", ErrUnknownImage, imageSize)
}

// LookupFile stats path and returns the profile for its size. The file is not opened.
func (r *Registry) LookupFile(path string) (Profile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: stat image: %w", ErrIO, err)
	}

	return r.Lookup(fi.Size())
}

// Profiles returns registered profiles sorted by image size.
func (r *Registry) Profiles() []Profile {
	if r == nil {
		return nil
	}

	out := make([]Profile, 0, len(r.bySize))
	for _, p := range r.bySize {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ImageSize < out[j].ImageSize })
	return out
}
