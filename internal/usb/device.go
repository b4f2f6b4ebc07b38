package usb

import "fmt"

// Device is a USB-attached block device discovered under the kernel's
// block device tree, together with the descriptor strings read from its
// USB ancestor.
type Device struct {
	// Path is the device node, e.g. "/dev/sdc".
	Path string

	Manufacturer string
	Product      string
	Serial       string
}

// FullName returns the identity string used for non-interactive device
// selection, e.g. "Samsung PSSD T7 S1SLVX2T1210".
func (d Device) FullName() string {
	return d.Manufacturer + " " + d.Product + " " + d.Serial
}

// Summary returns the one-line form shown in the interactive device list.
func (d Device) Summary() string {
	return fmt.Sprintf("[%s] %s", d.Path, d.FullName())
}
