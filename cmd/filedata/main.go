// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package main

import (
	"os"

	"github.com/woozymasta/filedata/cmd/filedata/command"

	"github.com/jessevdk/go-flags"
)

const (
	name = "filedata"
)

func main() {
	parser := flags.NewNamedParser(name, flags.Default)

	parser.AddCommand("extract", command.ExtractDescription, command.ExtractHelp,
		&command.Extract{})

	parser.AddCommand("create", command.CreateDescription, command.CreateHelp,
		&command.Create{})

	parser.AddCommand("tcb", command.TCBDescription, command.TCBHelp,
		&command.TCB{})

	parser.AddCommand("profiles", command.ProfilesDescription, command.ProfilesHelp,
		&command.Profiles{})

	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}

		os.Exit(1)
	}
}
