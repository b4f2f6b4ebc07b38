// Package mounts makes sure nothing on the target device is still mounted
// before the copier opens it for writing.
package mounts

import (
	"log/slog"
	"strings"

	"writedisk/internal/platform"
	"writedisk/internal/sysstat"
)

// Guard unmounts filesystems mounted from a target device. The mount table
// and unmount call are injectable for tests.
type Guard struct {
	Table   func() ([]sysstat.Mount, error)
	Unmount func(target string) error
}

// NewGuard returns a Guard over the live mount table.
func NewGuard() *Guard {
	return &Guard{
		Table:   sysstat.Mounts,
		Unmount: platform.Unmount,
	}
}

// UnmountAll unmounts every filesystem whose source spec has device as a
// prefix, which covers both the whole-device node and its partitions
// (e.g. /dev/sdc and /dev/sdc1). Unmounting is best-effort: a failed entry
// is logged and the rest still run, and an unreadable mount table degrades
// to a no-op. The subsequent open of the device re-validates writability.
func (g *Guard) UnmountAll(device string) {
	mounts, err := g.Table()
	if err != nil {
		slog.Warn("cannot read mount table, skipping unmount", "error", err)
		return
	}
	for _, m := range mounts {
		if !strings.HasPrefix(m.Source, device) {
			continue
		}
		slog.Info("unmounting", "source", m.Source, "target", m.Target)
		if err := g.Unmount(m.Target); err != nil {
			slog.Warn("unmount failed", "source", m.Source, "target", m.Target, "error", err)
		}
	}
}
