package theme

import (
	"errors"
	"fmt"
)

// ErrNoConfig is returned when a theme has no config usable at the screen
// resolution.
var ErrNoConfig = errors.New("no theme config for resolution")

// Diagnostic reports one rejected construct in a theme config. The construct
// is dropped and parsing continues with the next line.
type Diagnostic struct {
	File     string
	Line     int
	Col      int
	Expected string
	Found    string
	Msg      string
}

func (d *Diagnostic) Error() string {
	pos := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
	switch {
	case d.Expected != "" && d.Msg != "":
		return fmt.Sprintf("%s: %s: expected %s, found %s", pos, d.Msg, d.Expected, d.foundText())
	case d.Expected != "":
		return fmt.Sprintf("%s: expected %s, found %s", pos, d.Expected, d.foundText())
	}
	return fmt.Sprintf("%s: %s", pos, d.Msg)
}

func (d *Diagnostic) foundText() string {
	if d.Found == "" {
		return "end of line"
	}
	return fmt.Sprintf("%q", d.Found)
}
