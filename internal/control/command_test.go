package control

import (
	"errors"
	"testing"

	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/theme"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"set progress 0", Command{Kind: SetProgress}},
		{"set progress 65535", Command{Kind: SetProgress, Int: 65535}},
		{"set mode silent", Command{Kind: SetMode, Mode: theme.ModeSilent}},
		{"set mode verbose\n", Command{Kind: SetMode, Mode: theme.ModeVerbose}},
		{"set message Starting  $progress%", Command{Kind: SetMessage, Text: "Starting  $progress%"}},
		{"set theme gentoo", Command{Kind: SetTheme, Text: "gentoo"}},
		{"set effects fadein,fadeout", Command{Kind: SetEffects, Effects: state.Effects{FadeIn: true, FadeOut: true}}},
		{"set effects none", Command{Kind: SetEffects}},
		{"set textbox on", Command{Kind: SetTextbox, On: true}},
		{"set textbox off", Command{Kind: SetTextbox}},
		{"set tty silent 8", Command{Kind: SetSilentTTY, Int: 8}},
		{"update_svc sshd svc_started", Command{Kind: UpdateService, Text: "sshd", State: theme.SvcStarted}},
		{"log mounting /usr", Command{Kind: Log, Text: "mounting /usr"}},
		{"paint", Command{Kind: Paint}},
		{"repaint", Command{Kind: Repaint}},
		{"exit", Command{Kind: Exit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line    string
		unknown bool
	}{
		{"frobnicate", true},
		{"set colour red", true},
		{"set progress", false},
		{"set progress 70000", false},
		{"set progress -1", false},
		{"set mode loud", false},
		{"set theme ../etc", false},
		{"set effects sparkle", false},
		{"set textbox maybe", false},
		{"set tty verbose 1", false},
		{"set tty silent 0", false},
		{"update_svc sshd", false},
		{"update_svc sshd svc_exploded", false},
		{"paint now", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.line)
			}
			if got := errors.Is(err, ErrUnknownCommand); got != tt.unknown {
				t.Errorf("Parse(%q) unknown = %v, want %v (%v)", tt.line, got, tt.unknown, err)
			}
		})
	}
}
