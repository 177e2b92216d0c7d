// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package command

import (
	"fmt"
	"io"
)

const (
	ProfilesDescription = "List supported executable builds"
	ProfilesHelp        = ProfilesDescription + "\n\n" +
		"Builds are identified by exact executable size. Extra builds are\n" +
		"read from the YAML file given with --profiles."
)

// Profiles represents the `profiles` command of filedata cli tool.
type Profiles struct {
	LogOptions
	ProfileOptions

	out io.Writer
}

// Execute prints the registry, it honors the go-flags.Commander interface.
func (c *Profiles) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	registry, err := c.registry()
	if err != nil {
		return err
	}

	w := output(c.out)
	for _, p := range registry.Profiles() {
		if _, err := fmt.Fprintf(w, "%-22s size=%-9d table=0x%06X entries=%d\n",
			p.Name, p.ImageSize, p.TableOffset, p.EntryCount); err != nil {
			return err
		}
	}

	return nil
}
