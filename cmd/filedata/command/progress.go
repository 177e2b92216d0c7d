// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filedata

package command

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 10

// progressBar renders `\r[#####-----] 50%` lines on one terminal row.
type progressBar struct {
	w       io.Writer
	percent int
	drawn   bool
}

func newProgressBar(w io.Writer, enabled bool) *progressBar {
	if !enabled {
		return nil
	}

	return &progressBar{w: w, percent: -1}
}

// Update redraws the bar for done of total items when the percentage changes.
func (p *progressBar) Update(done, total int) {
	if p == nil || total <= 0 {
		return
	}

	percent := (200*done + total) / (2 * total)
	percent = max(0, min(percent, 100))
	if percent == p.percent {
		return
	}

	p.percent = percent
	p.drawn = true

	filled := percent / (100 / progressWidth)
	_, _ = fmt.Fprintf(p.w, "\r[%s%s] %d%%",
		strings.Repeat("#", filled), strings.Repeat("-", progressWidth-filled), percent)
}

// Done ends the bar row.
func (p *progressBar) Done() {
	if p == nil || !p.drawn {
		return
	}

	_, _ = fmt.Fprintln(p.w)
	p.drawn = false
}
