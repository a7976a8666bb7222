//go:build linux

package watchdog

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// Device drives a Linux watchdog character device (e.g. /dev/watchdog).
// Opening the device arms it; it must be fed before its timeout or the
// hardware resets the machine.
type Device struct {
	f *os.File
}

// Open arms the watchdog at path.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog %q: %w", path, err)
	}
	return &Device{f: f}, nil
}

// Feed resets the watchdog timer by writing a byte to the device.
func (d *Device) Feed() error {
	if _, err := d.f.Write([]byte{'.'}); err != nil {
		return fmt.Errorf("feed watchdog: %w", err)
	}
	return nil
}

// ForceReset reboots the machine immediately. The armed watchdog is left
// unfed as a backstop in case the reboot syscall itself fails.
func (d *Device) ForceReset() error {
	log.Printf("watchdog: forcing hard reset")
	unix.Sync()
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	return nil
}

// Close disarms the watchdog with the magic close character and closes the
// device.
func (d *Device) Close() error {
	// 'V' tells the driver this is an orderly shutdown.
	if _, err := d.f.Write([]byte{'V'}); err != nil {
		d.f.Close()
		return fmt.Errorf("disarm watchdog: %w", err)
	}
	return d.f.Close()
}
