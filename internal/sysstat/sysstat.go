// Package sysstat reads the kernel counters the copier consumes: the
// dirty page-cache byte count and the live mount table.
package sysstat

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// DirtyBytes returns the kernel's current count of page-cache bytes not yet
// written back to storage. It returns 0 when the counter is unavailable, so
// callers degrade to the "no estimate" path instead of failing.
func DirtyBytes() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Dirty
}

// Mount is one entry of the live mount table.
type Mount struct {
	// Source is the mounted device or pseudo-filesystem spec, e.g. "/dev/sdc1".
	Source string
	// Target is the mount point.
	Target string
}

// Mounts snapshots the live mount table.
func Mounts() ([]Mount, error) {
	parts, err := disk.Partitions(true)
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}
	mounts := make([]Mount, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, Mount{Source: p.Device, Target: p.Mountpoint})
	}
	return mounts, nil
}
