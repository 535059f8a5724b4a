package app

import "github.com/rook-computer/splashd/internal/system"

// Console switches virtual consoles and their display mode.
type Console interface {
	ActiveVT() (int, error)
	Activate(tty int) error
	// Graphics sets KD_GRAPHICS (true) or KD_TEXT (false) on tty.
	Graphics(tty int, on bool) error
	Cursor(tty int, visible bool) error
}

// SystemConsole drives the Linux VT layer.
type SystemConsole struct {
	Logger Logger
}

func (c SystemConsole) ActiveVT() (int, error) { return system.ActiveVT() }

func (c SystemConsole) Activate(tty int) error { return system.ActivateVTWithLog(c.Logger, tty) }

func (c SystemConsole) Graphics(tty int, on bool) error {
	if on {
		return system.SetGraphicsModeWithLog(c.Logger, tty)
	}
	return system.RestoreTextModeWithLog(c.Logger, tty)
}

func (c SystemConsole) Cursor(tty int, visible bool) error {
	if visible {
		return system.ShowCursorWithLog(c.Logger, tty)
	}
	return system.HideCursorWithLog(c.Logger, tty)
}
