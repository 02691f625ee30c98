// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress reports batch progress on a terminal.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates. Implementations must be safe for
// concurrent use.
type Reporter interface {
	// Start announces a new unit of work with total steps.
	Start(total int, description string)
	// Step records one completed step.
	Step()
	// Finish completes the current unit.
	Finish()
}

// Nop discards all updates.
type Nop struct{}

func (Nop) Start(int, string) {}

func (Nop) Step() {}

func (Nop) Finish() {}

// Bar draws a progress bar to w, normally stderr.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBar returns a Reporter that renders to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) Start(total int, description string) {
	b.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(b.w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (b *Bar) Step() {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}
