// Package ui renders phase-labeled progress for the two copier phases.
package ui

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress is the sink both copy phases report into. Ownership is
// sequential: the copy loop drives it first, then hands it to the sync
// estimator; the two never write concurrently.
type Progress interface {
	// SetLabel replaces the phase label, e.g. "syncing... (2/2)".
	SetLabel(label string)
	// SetPercent reports completion of the current phase in [0, 100].
	SetPercent(pct int)
	// Finish completes rendering.
	Finish()
}

// Bar renders progress as a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a Bar writing to w with the given initial phase label.
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

func (b *Bar) SetLabel(label string) { b.bar.Describe(label) }
func (b *Bar) SetPercent(pct int)    { _ = b.bar.Set(pct) }
func (b *Bar) Finish()               { _ = b.bar.Finish() }

// Null discards all progress updates.
type Null struct{}

func (Null) SetLabel(string) {}
func (Null) SetPercent(int)  {}
func (Null) Finish()         {}
