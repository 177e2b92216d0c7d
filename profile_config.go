// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// profileFile is the YAML document holding extra profiles.
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// ParseProfiles decodes extra profiles from YAML:
//
//	profiles:
//	  - name: MAX JP rev B
//	    image_size: 1535100
//	    table_offset: 0x175B18
//	    entry_count: 374
func ParseProfiles(data []byte) ([]Profile, error) {
	var doc profileFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode profiles: %w", ErrInvalidProfile, err)
	}

	for i := range doc.Profiles {
		if err := doc.Profiles[i].validate(); err != nil {
			return nil, fmt.Errorf("profile #%d: %w", i, err)
		}
	}

	return doc.Profiles, nil
}

// LoadProfiles reads extra profiles from YAML file.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read profiles: %w", ErrIO, err)
	}

	return ParseProfiles(data)
}
