//go:build linux

package system

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h, VT requests from linux/vt.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl

	vtGetState   = 0x5603
	vtActivate   = 0x5606
	vtWaitActive = 0x5607
)

// ttyPaths lists the devices tried for console n; 0 means the active one.
func ttyPaths(n int) []string {
	if n > 0 {
		return []string{fmt.Sprintf("/dev/tty%d", n)}
	}
	return []string{"/dev/tty", "/dev/tty0"}
}

func setKDMode(n, mode int, name string) error {
	var lastErr error
	for _, p := range ttyPaths(n) {
		fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NOCTTY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("%s on %s: %w", name, p, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%s failed: unknown error", name)
}

// SetGraphicsMode switches console n to graphics mode so the kernel stops
// drawing text and the cursor over the splash.
func SetGraphicsMode(n int) error { return setKDMode(n, kdGraphics, "KD_GRAPHICS") }

// RestoreTextMode gives console n back to the kernel's text console.
func RestoreTextMode(n int) error { return setKDMode(n, kdText, "KD_TEXT") }

// Logging wrappers
type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

func logResult(l logger, err error, ok, failed string) error {
	if l == nil {
		return err
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
	} else {
		l.Infof("tty", "%s", ok)
	}
	return err
}

func SetGraphicsModeWithLog(l logger, n int) error {
	return logResult(l, SetGraphicsMode(n), fmt.Sprintf("KD_GRAPHICS set on tty%d", n), "KD_GRAPHICS failed")
}

func RestoreTextModeWithLog(l logger, n int) error {
	return logResult(l, RestoreTextMode(n), fmt.Sprintf("KD_TEXT set on tty%d", n), "KD_TEXT failed")
}

type vtStat struct {
	Active uint16
	Signal uint16
	State  uint16
}

// ActiveVT returns the number of the foreground virtual console.
func ActiveVT() (int, error) {
	fd, err := unix.Open("/dev/tty0", unix.O_RDONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return 0, fmt.Errorf("open /dev/tty0: %w", err)
	}
	defer unix.Close(fd)
	var st vtStat
	if err := ioctl(fd, vtGetState, unsafe.Pointer(&st)); err != nil {
		return 0, fmt.Errorf("VT_GETSTATE: %w", err)
	}
	return int(st.Active), nil
}

// ActivateVT brings console n to the foreground and waits until the switch
// is done.
func ActivateVT(n int) error {
	fd, err := unix.Open("/dev/tty0", unix.O_RDONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return fmt.Errorf("open /dev/tty0: %w", err)
	}
	defer unix.Close(fd)
	if err := unix.IoctlSetInt(fd, vtActivate, n); err != nil {
		return fmt.Errorf("VT_ACTIVATE %d: %w", n, err)
	}
	if err := unix.IoctlSetInt(fd, vtWaitActive, n); err != nil {
		return fmt.Errorf("VT_WAITACTIVE %d: %w", n, err)
	}
	return nil
}

func ActivateVTWithLog(l logger, n int) error {
	return logResult(l, ActivateVT(n), fmt.Sprintf("switched to tty%d", n), "VT switch failed")
}

// HideCursor writes the ANSI escape to hide the cursor on console n.
func HideCursor(n int) error { return writeVT(n, "\x1b[?25l") }
func ShowCursor(n int) error { return writeVT(n, "\x1b[?25h") }

func HideCursorWithLog(l logger, n int) error {
	return logResult(l, HideCursor(n), "cursor hidden", "hide cursor failed")
}

func ShowCursorWithLog(l logger, n int) error {
	return logResult(l, ShowCursor(n), "cursor shown", "show cursor failed")
}

func writeVT(n int, s string) error {
	var lastErr error
	for _, p := range ttyPaths(n) {
		f, err := os.OpenFile(p, os.O_WRONLY|unix.O_NOCTTY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return fmt.Errorf("write VT failed: %v", lastErr)
	}
	return fmt.Errorf("write VT failed: unknown error")
}
