package mounts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"writedisk/internal/sysstat"
)

func TestUnmountAllMatchesDeviceAndPartitions(t *testing.T) {
	table := []sysstat.Mount{
		{Source: "/dev/sdc1", Target: "/media/usb1"},
		{Source: "/dev/sdc2", Target: "/media/usb2"},
		{Source: "/dev/sda1", Target: "/"},
	}

	var unmounted []string
	g := &Guard{
		Table:   func() ([]sysstat.Mount, error) { return table, nil },
		Unmount: func(target string) error { unmounted = append(unmounted, target); return nil },
	}
	g.UnmountAll("/dev/sdc")

	assert.Equal(t, []string{"/media/usb1", "/media/usb2"}, unmounted)
}

func TestUnmountAllContinuesAfterFailure(t *testing.T) {
	table := []sysstat.Mount{
		{Source: "/dev/sdc1", Target: "/media/usb1"},
		{Source: "/dev/sdc2", Target: "/media/usb2"},
	}

	var attempted []string
	g := &Guard{
		Table: func() ([]sysstat.Mount, error) { return table, nil },
		Unmount: func(target string) error {
			attempted = append(attempted, target)
			if target == "/media/usb1" {
				return errors.New("target is busy")
			}
			return nil
		},
	}
	g.UnmountAll("/dev/sdc")

	// The first failure does not stop the second unmount.
	assert.Equal(t, []string{"/media/usb1", "/media/usb2"}, attempted)
}

func TestUnmountAllNothingMounted(t *testing.T) {
	g := &Guard{
		Table:   func() ([]sysstat.Mount, error) { return nil, nil },
		Unmount: func(string) error { t.Fatal("unexpected unmount"); return nil },
	}
	g.UnmountAll("/dev/sdc")
}

func TestUnmountAllUnreadableTable(t *testing.T) {
	g := &Guard{
		Table:   func() ([]sysstat.Mount, error) { return nil, errors.New("permission denied") },
		Unmount: func(string) error { t.Fatal("unexpected unmount"); return nil },
	}
	// An unreadable mount table degrades to a no-op instead of blocking
	// the copy.
	g.UnmountAll("/dev/sdc")
}
