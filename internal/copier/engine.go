// Package copier performs the privileged half of a disk write: the chunked
// byte-exact transfer onto the device and the flush that follows it, with a
// progress estimate for each phase.
package copier

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"writedisk/internal/platform"
	"writedisk/internal/sysstat"
	"writedisk/internal/ui"
)

// DefaultChunkSize is the fixed transfer size of the copy loop.
const DefaultChunkSize = 1 << 20 // 1 MiB

// Engine copies a source file onto a destination block device. The dirty
// counter, flush call, and clock are injectable for tests.
type Engine struct {
	ChunkSize int64
	Interval  time.Duration
	Progress  ui.Progress
	Out       io.Writer

	Dirty func() uint64
	Flush func(*os.File) error
	Clock clockwork.Clock
}

// New returns an Engine with production defaults, reporting to progress and
// writing protocol lines to out.
func New(progress ui.Progress, out io.Writer) *Engine {
	return &Engine{
		ChunkSize: DefaultChunkSize,
		Interval:  DefaultPollInterval,
		Progress:  progress,
		Out:       out,
		Dirty:     sysstat.DirtyBytes,
		Flush:     platform.Fdatasync,
		Clock:     clockwork.NewRealClock(),
	}
}

// Run copies srcPath byte-for-byte onto dstPath and blocks until the kernel
// has flushed the written data to the medium. Any I/O failure is fatal and
// may leave a partial image on the destination; there is no rollback.
func (e *Engine) Run(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}
	total := uint64(info.Size())

	// The destination node must already exist; the engine never creates
	// device nodes.
	dst, err := os.OpenFile(dstPath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s for writing: %w", dstPath, err)
	}
	defer dst.Close()

	before := e.Dirty()

	e.Progress.SetLabel("copying... (1/2)")
	if err := e.copyLoop(src, dst, total, dstPath); err != nil {
		return err
	}

	// Bytes the copy itself left dirty in the page cache. Zero means dirty
	// tracking is unavailable or write-back already caught up, so there is
	// no information to estimate from.
	span := saturatingSub(e.Dirty(), before)

	done := make(chan struct{}, 1)
	estExited := make(chan struct{})
	if span == 0 {
		fmt.Fprintln(e.Out, "syncing... (2/2)")
		close(estExited)
	} else {
		est := &Estimator{
			Before:   before,
			Span:     span,
			Dirty:    e.Dirty,
			Clock:    e.Clock,
			Interval: e.Interval,
			Progress: e.Progress,
		}
		go func() {
			defer close(estExited)
			est.Run(done)
		}()
	}

	if err := e.Flush(dst); err != nil {
		return fmt.Errorf("sync %s: %w", dstPath, err)
	}
	done <- struct{}{}
	<-estExited
	e.Progress.Finish()

	fmt.Fprintln(e.Out, "finished")
	return nil
}

// copyLoop transfers exactly total bytes in fixed-size chunks, emitting the
// exact progress fraction before each transfer. A short read or any I/O
// error aborts the whole copy.
func (e *Engine) copyLoop(src io.Reader, dst io.Writer, total uint64, dstPath string) error {
	chunk := uint64(DefaultChunkSize)
	if e.ChunkSize > 0 {
		chunk = uint64(e.ChunkSize)
	}

	buf := make([]byte, chunk)
	var written uint64
	for written < total {
		e.Progress.SetPercent(Percent(written, total))

		n := chunk
		if remaining := total - written; remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(src, buf[:n]); err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		if _, err := dst.Write(buf[:n]); err != nil {
			return fmt.Errorf("write %s: %w", dstPath, err)
		}
		written += n
	}
	return nil
}
