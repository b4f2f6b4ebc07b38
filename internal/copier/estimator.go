package copier

import (
	"time"

	"github.com/jonboulle/clockwork"

	"writedisk/internal/ui"
)

// DefaultPollInterval is how often the estimator re-samples the dirty
// counter while the flush is in progress.
const DefaultPollInterval = 500 * time.Millisecond

// Estimator reports an estimated flush completion percentage while the main
// thread blocks in the actual flush call. It is purely observational and has
// no effect on when the flush completes.
type Estimator struct {
	// Before is the dirty byte count sampled before the copy started.
	Before uint64
	// Span is how many bytes the copy itself dirtied.
	Span uint64

	Dirty    func() uint64
	Clock    clockwork.Clock
	Interval time.Duration
	Progress ui.Progress
}

// Run polls the dirty counter at the configured cadence and reports the
// estimate until the one-shot done signal arrives. A received value and a
// closed channel both mean stop, covering a signaling side that exits
// without sending.
func (e *Estimator) Run(done <-chan struct{}) {
	e.Progress.SetLabel("syncing... (2/2)")
	for {
		e.Progress.SetPercent(SyncPercent(e.Before, e.Span, e.Dirty()))
		e.Clock.Sleep(e.Interval)
		select {
		case <-done:
			return
		default:
		}
	}
}
