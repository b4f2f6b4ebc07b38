//go:build linux

// Package platform wraps the raw syscalls the copier depends on.
package platform

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Fdatasync blocks until the kernel has written back all buffered data for
// f to the physical medium, or reports the write-back failure.
func Fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

// Unmount detaches the filesystem mounted at target. It tries the syscall
// first and falls back to the umount binary, which handles setups where the
// direct syscall is refused (e.g. autofs-managed mounts).
func Unmount(target string) error {
	if err := unix.Unmount(target, 0); err == nil {
		return nil
	}
	return exec.Command("umount", target).Run()
}
