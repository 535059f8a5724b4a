// Package control reads splash commands written by init scripts to the
// control FIFO.
package control

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/theme"
)

// DefaultFIFO is where boot scripts write commands.
const DefaultFIFO = "/lib/splash/cache/.splash"

var ErrUnknownCommand = errors.New("unknown command")

type Kind int

const (
	SetProgress Kind = iota
	SetMode
	SetMessage
	SetTheme
	SetEffects
	SetTextbox
	SetSilentTTY
	UpdateService
	Log
	Paint
	Repaint
	Exit
)

var kindNames = [...]string{
	SetProgress:   "set progress",
	SetMode:       "set mode",
	SetMessage:    "set message",
	SetTheme:      "set theme",
	SetEffects:    "set effects",
	SetTextbox:    "set textbox",
	SetSilentTTY:  "set tty silent",
	UpdateService: "update_svc",
	Log:           "log",
	Paint:         "paint",
	Repaint:       "repaint",
	Exit:          "exit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one parsed control line. Only the fields of its Kind are set.
type Command struct {
	Kind Kind
	// Int is the progress value or the tty number.
	Int int
	// Text is the message, log line, theme name or service name.
	Text    string
	Mode    theme.Mode
	State   theme.SvcState
	On      bool
	Effects state.Effects
}

// Parse parses one command line. Message and log text keep their inner
// spacing.
func Parse(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	verb, rest := cut(line)
	switch verb {
	case "set":
		return parseSet(rest)
	case "update_svc":
		name, st := cut(rest)
		st = strings.TrimSpace(st)
		if name == "" || st == "" {
			return Command{}, fmt.Errorf("update_svc: want <service> <state>")
		}
		s, ok := theme.ParseSvcState(st)
		if !ok {
			return Command{}, fmt.Errorf("update_svc: unknown state %q", st)
		}
		return Command{Kind: UpdateService, Text: name, State: s}, nil
	case "log":
		return Command{Kind: Log, Text: rest}, nil
	case "paint":
		return noArgs(Paint, rest)
	case "repaint":
		return noArgs(Repaint, rest)
	case "exit":
		return noArgs(Exit, rest)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

func parseSet(s string) (Command, error) {
	what, arg := cut(s)
	switch what {
	case "progress":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 0 || n > theme.MaxProgress {
			return Command{}, fmt.Errorf("set progress: want 0..%d, got %q", theme.MaxProgress, arg)
		}
		return Command{Kind: SetProgress, Int: n}, nil
	case "mode":
		m, ok := theme.ParseMode(arg)
		if !ok {
			return Command{}, fmt.Errorf("set mode: want silent or verbose, got %q", arg)
		}
		return Command{Kind: SetMode, Mode: m}, nil
	case "message":
		return Command{Kind: SetMessage, Text: arg}, nil
	case "theme":
		name := strings.TrimSpace(arg)
		if name == "" || strings.ContainsAny(name, "/ ") {
			return Command{}, fmt.Errorf("set theme: bad name %q", arg)
		}
		return Command{Kind: SetTheme, Text: name}, nil
	case "effects":
		e, err := parseEffects(arg)
		if err != nil {
			return Command{}, fmt.Errorf("set effects: %w", err)
		}
		return Command{Kind: SetEffects, Effects: e}, nil
	case "textbox":
		switch strings.TrimSpace(arg) {
		case "on":
			return Command{Kind: SetTextbox, On: true}, nil
		case "off":
			return Command{Kind: SetTextbox}, nil
		}
		return Command{}, fmt.Errorf("set textbox: want on or off, got %q", arg)
	case "tty":
		which, n := cut(arg)
		if which != "silent" {
			return Command{}, fmt.Errorf("set tty: only the silent tty can be set")
		}
		tty, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || tty < 1 || tty > 63 {
			return Command{}, fmt.Errorf("set tty silent: bad tty %q", n)
		}
		return Command{Kind: SetSilentTTY, Int: tty}, nil
	}
	return Command{}, fmt.Errorf("%w: set %q", ErrUnknownCommand, what)
}

// parseEffects parses a comma separated effects list such as
// "fadein,fadeout"; "none" clears both.
func parseEffects(s string) (state.Effects, error) {
	var e state.Effects
	for _, f := range strings.Split(strings.TrimSpace(s), ",") {
		switch strings.TrimSpace(f) {
		case "fadein":
			e.FadeIn = true
		case "fadeout":
			e.FadeOut = true
		case "none", "":
		default:
			return state.Effects{}, fmt.Errorf("unknown effect %q", f)
		}
	}
	return e, nil
}

func noArgs(k Kind, rest string) (Command, error) {
	if strings.TrimSpace(rest) != "" {
		return Command{}, fmt.Errorf("%v takes no arguments", k)
	}
	return Command{Kind: k}, nil
}

// cut splits off the first space separated word.
func cut(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
