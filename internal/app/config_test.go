package app

import (
	"testing"

	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/theme"
)

func TestApplyCmdline(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		check   func(Config) bool
		wantErr bool
	}{
		{"no splash option", "quiet root=/dev/sda1", func(c Config) bool { return c == DefaultConfig() }, false},
		{"silent with effects", "quiet splash=silent,fadein,fadeout",
			func(c Config) bool {
				return c.Mode == theme.ModeSilent && c.Effects == state.Effects{FadeIn: true, FadeOut: true}
			}, false},
		{"theme and tty", "splash=theme:gentoo,tty:6",
			func(c Config) bool { return c.Theme == "gentoo" && c.SilentTTY == 6 }, false},
		{"flags", "splash=nokdgraphics,insane",
			func(c Config) bool { return !c.KDGraphics && c.Insane }, false},
		{"later wins", "splash=silent splash=verbose",
			func(c Config) bool { return c.Mode == theme.ModeVerbose }, false},
		{"bad tty keeps the rest", "splash=tty:99,silent",
			func(c Config) bool { return c.SilentTTY == 8 && c.Mode == theme.ModeSilent }, true},
		{"quoted value", `quiet splash="silent,theme:gentoo" init=/sbin/init`,
			func(c Config) bool { return c.Mode == theme.ModeSilent && c.Theme == "gentoo" }, false},
		{"unterminated quote keeps the rest", `splash=silent "oops`,
			func(c Config) bool { return c.Mode == theme.ModeSilent }, true},
		{"unknown option", "splash=sparkle", func(Config) bool { return true }, true},
		{"theme path", "splash=theme:../x", func(c Config) bool { return c.Theme == "default" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			err := c.ApplyCmdline(tt.cmdline)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.check(c) {
				t.Errorf("unexpected config %+v", c)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvThemeDir: "/usr/share/splash",
		EnvTheme:    "natural",
		EnvBootType: "shutdown",
		EnvDebug:    "true",
	}
	c := DefaultConfig()
	if err := c.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if c.ThemeDir != "/usr/share/splash" || c.Theme != "natural" || c.BootType != theme.Shutdown || !c.Debug {
		t.Errorf("env not applied: %+v", c)
	}
	if c.FIFO != DefaultConfig().FIFO {
		t.Errorf("unset variable changed FIFO to %q", c.FIFO)
	}

	env = map[string]string{EnvDebug: "sometimes", EnvBootType: "hibernate", EnvTheme: "ok"}
	c = DefaultConfig()
	if err := c.ApplyEnv(func(k string) string { return env[k] }); err == nil {
		t.Errorf("invalid values accepted")
	}
	if c.Theme != "ok" || c.Debug || c.BootType != theme.BootUp {
		t.Errorf("partial apply wrong: %+v", c)
	}
}
