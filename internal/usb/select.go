package usb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selection failure modes, surfaced to the operator verbatim.
var (
	ErrNoDevices     = errors.New("no devices found")
	ErrInvalidDevice = errors.New("invalid device")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidIndex  = errors.New("invalid index")
)

// Select resolves exactly one device from the discovered set. With a
// non-empty deviceName it requires an exact identity-string match and never
// falls back to interactive mode. Otherwise it lists the devices on out and
// reads a single index choice from in; there is no retry on bad input.
func Select(devices []Device, deviceName string, in io.Reader, out io.Writer) (Device, error) {
	if len(devices) == 0 {
		return Device{}, ErrNoDevices
	}

	if deviceName != "" {
		for _, dev := range devices {
			if dev.FullName() == deviceName {
				fmt.Fprintf(out, "writing to %s (%s)\n", dev.Path, dev.FullName())
				return dev, nil
			}
		}
		return Device{}, ErrInvalidDevice
	}

	for i, dev := range devices {
		fmt.Fprintf(out, "%d: %s\n", i, dev.Summary())
	}
	fmt.Fprint(out, "select device: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return Device{}, ErrInvalidInput
	}
	index, err := strconv.ParseUint(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return Device{}, ErrInvalidInput
	}
	if index >= uint64(len(devices)) {
		return Device{}, ErrInvalidIndex
	}
	return devices[index], nil
}
