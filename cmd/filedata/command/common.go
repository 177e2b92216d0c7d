// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package command

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/filedata"

	"github.com/sirupsen/logrus"
	"github.com/woozymasta/pathrules"
)

// LogOptions are logging flags shared by every command.
type LogOptions struct {
	Verbose  bool   `short:"v" long:"verbose" description:"Activates the verbose mode"`
	LogLevel string `long:"log-level" env:"FILEDATA_LOG_LEVEL" choice:"info" choice:"debug" choice:"warning" choice:"error" choice:"fatal" default:"info" description:"logging level"`
}

// setup applies log flags to the global logger.
func (o *LogOptions) setup() error {
	if o.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// info is the default log level
	if o.LogLevel != "" && o.LogLevel != "info" {
		level, err := logrus.ParseLevel(o.LogLevel)
		if err != nil {
			return fmt.Errorf("cannot parse log level: %s", err.Error())
		}
		logrus.SetLevel(level)
	}

	return nil
}

// ProfileOptions select the image profile registry.
type ProfileOptions struct {
	ProfilesFile string `short:"p" long:"profiles" env:"FILEDATA_PROFILES" description:"YAML file with additional image profiles"`
}

// registry returns known profiles extended by the profiles file.
func (o *ProfileOptions) registry() (*filedata.Registry, error) {
	r := filedata.DefaultRegistry()
	if o.ProfilesFile == "" {
		return r, nil
	}

	profiles, err := filedata.LoadProfiles(o.ProfilesFile)
	if err != nil {
		return nil, err
	}

	if err := r.RegisterAll(profiles); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"file":     o.ProfilesFile,
		"profiles": len(profiles),
	}).Debug("loaded extra image profiles")

	return r, nil
}

// FilterOptions select entries by output filename.
type FilterOptions struct {
	Include []string `short:"i" long:"include" description:"Only process files matching this glob, multiple allowed"`
	Exclude []string `short:"x" long:"exclude" description:"Skip files matching this glob, multiple allowed"`
}

// rules converts flags to ordered filter rules; excludes come last and win.
func (o *FilterOptions) rules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(o.Include)+len(o.Exclude))
	for _, p := range o.Include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}

	for _, p := range o.Exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	return rules
}

// output returns w or stdout.
func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
