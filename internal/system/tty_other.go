//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("virtual consoles are only supported on linux")

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

func SetGraphicsMode(n int) error                  { return errNoConsole }
func RestoreTextMode(n int) error                  { return errNoConsole }
func SetGraphicsModeWithLog(l logger, n int) error { return errNoConsole }
func RestoreTextModeWithLog(l logger, n int) error { return errNoConsole }
func ActiveVT() (int, error)                       { return 0, errNoConsole }
func ActivateVT(n int) error                       { return errNoConsole }
func ActivateVTWithLog(l logger, n int) error      { return errNoConsole }
func HideCursor(n int) error                       { return errNoConsole }
func ShowCursor(n int) error                       { return errNoConsole }
func HideCursorWithLog(l logger, n int) error      { return errNoConsole }
func ShowCursorWithLog(l logger, n int) error      { return errNoConsole }
