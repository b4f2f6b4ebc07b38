package usb

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// descriptorFiles are the sysfs files that must all be present in a single
// ancestor directory for it to qualify as a device's USB info directory.
var descriptorFiles = [3]string{"manufacturer", "product", "serial"}

// Scanner enumerates removable USB block devices by walking the kernel's
// block device tree. The filesystem and symlink resolver are injectable so
// tests can drive the walk over a synthetic tree.
type Scanner struct {
	FS       afero.Fs
	SysBlock string
	DevDir   string
	// Resolve canonicalizes the <entry>/device symlink into the physical
	// device topology path, e.g.
	// /sys/devices/pci0000:00/.../usb4/4-3/4-3.2/4-3.2:1.0/host7/target7:0:0/7:0:0:0
	Resolve func(path string) (string, error)
}

// NewScanner returns a Scanner over the live sysfs tree.
func NewScanner() *Scanner {
	return &Scanner{
		FS:       afero.NewOsFs(),
		SysBlock: "/sys/block",
		DevDir:   "/dev",
		Resolve:  filepath.EvalSymlinks,
	}
}

// Scan returns all currently visible USB-attached block devices. Candidates
// that are not USB-attached, lack descriptor files, or fail a descriptor
// read are skipped; only failure to list the block tree itself is an error.
func (s *Scanner) Scan() ([]Device, error) {
	entries, err := afero.ReadDir(s.FS, s.SysBlock)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.SysBlock, err)
	}

	var devices []Device
	for _, entry := range entries {
		name := entry.Name()
		canonical, err := s.Resolve(filepath.Join(s.SysBlock, name, "device"))
		if err != nil {
			// Virtual or already-removed device with no physical topology.
			slog.Debug("skipping block device without device link", "name", name)
			continue
		}

		if !IsUSBPath(canonical) {
			slog.Debug("skipping non-USB block device", "name", name)
			continue
		}

		infoDir, ok := s.findInfoDir(canonical)
		if !ok {
			slog.Debug("skipping USB device without descriptors", "name", name)
			continue
		}

		dev := Device{Path: filepath.Join(s.DevDir, name)}
		if err := s.readDescriptors(infoDir, &dev); err != nil {
			slog.Debug("skipping device with unreadable descriptors",
				"name", name, "error", err)
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// findInfoDir searches the ancestor chain of the canonical device path for
// the nearest directory containing all three descriptor files.
func (s *Scanner) findInfoDir(path string) (string, bool) {
	for _, dir := range Ancestors(path) {
		if s.hasDescriptors(dir) {
			return dir, true
		}
	}
	return "", false
}

func (s *Scanner) hasDescriptors(dir string) bool {
	for _, name := range descriptorFiles {
		ok, err := afero.Exists(s.FS, filepath.Join(dir, name))
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func (s *Scanner) readDescriptors(dir string, dev *Device) error {
	read := func(name string) (string, error) {
		data, err := afero.ReadFile(s.FS, filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	var err error
	if dev.Manufacturer, err = read("manufacturer"); err != nil {
		return err
	}
	if dev.Product, err = read("product"); err != nil {
		return err
	}
	dev.Serial, err = read("serial")
	return err
}

// Ancestors returns path followed by each parent directory up to the root,
// nearest first.
func Ancestors(path string) []string {
	var out []string
	for {
		out = append(out, path)
		parent := filepath.Dir(path)
		if parent == path {
			return out
		}
		path = parent
	}
}

// IsUSBPath reports whether any ancestor of path has a final segment
// beginning with "usb". This is how the kernel names USB subsystem
// directories; unusual bus topologies can defeat the heuristic.
func IsUSBPath(path string) bool {
	for _, dir := range Ancestors(path) {
		if strings.HasPrefix(filepath.Base(dir), "usb") {
			return true
		}
	}
	return false
}
