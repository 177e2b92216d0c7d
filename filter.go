// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package filedata

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entryFilter holds compiled filename rules for entry selection.
type entryFilter struct {
	matcher *pathrules.Matcher
}

// newEntryFilter compiles filename rules. Empty rule set yields nil filter that selects everything.
func newEntryFilter(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryFilter, error) {
	rules = normalizeFilterRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("compile filter rules: %w", err)
	}

	return &entryFilter{matcher: matcher}, nil
}

// normalizeFilterRules normalizes rule patterns and drops empty patterns.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizeFilterName(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// normalizeFilterName converts filter patterns and names to slash form.
func normalizeFilterName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, `\`, `/`)
	return strings.TrimPrefix(name, "./")
}

// Match reports whether filename is selected. Nil filter selects everything.
func (f *entryFilter) Match(filename string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	candidate := normalizeFilterName(filename)
	if candidate == "" {
		return false
	}

	return f.matcher.Included(candidate, false)
}

// applyFilterDefaultAction fills unset default action: exclude-by-default when any
// include rule exists, include otherwise so exclude-only rule sets keep everything else.
func applyFilterDefaultAction(opts *pathrules.MatcherOptions, rules []pathrules.Rule) {
	if opts.DefaultAction != pathrules.ActionUnknown {
		return
	}

	opts.DefaultAction = pathrules.ActionInclude
	for _, rule := range rules {
		if rule.Action == pathrules.ActionInclude && strings.TrimSpace(rule.Pattern) != "" {
			opts.DefaultAction = pathrules.ActionExclude
			return
		}
	}
}

// FilterEntries returns entries whose filename passes rules.
func FilterEntries(entries []Entry, rules []pathrules.Rule, opts pathrules.MatcherOptions) ([]Entry, error) {
	applyFilterDefaultAction(&opts, rules)

	filter, err := newEntryFilter(rules, opts)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if filter.Match(entries[i].Filename) {
			out = append(out, entries[i])
		}
	}

	return out, nil
}
