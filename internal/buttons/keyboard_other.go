//go:build !linux

package buttons

type keyboardLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// NewKeyboard has no input devices to watch outside Linux.
func NewKeyboard(logger keyboardLogger) *NoopButtons { return NewNoopButtons() }
