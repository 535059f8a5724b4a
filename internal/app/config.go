package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/rook-computer/splashd/internal/control"
	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/system"
	"github.com/rook-computer/splashd/internal/theme"
)

// Environment variables read by ApplyEnv.
const (
	EnvThemeDir = "SPLASH_THEME_DIR"
	EnvTheme    = "SPLASH_THEME"
	EnvFIFO     = "SPLASH_FIFO"
	EnvStdioLog = "SPLASH_STDIO_LOG"
	EnvBootType = "SPLASH_BOOT_TYPE"
	EnvFB       = "SPLASH_FB"
	EnvDebug    = "SPLASH_DEBUG"
)

// Config is the daemon configuration. Later sources override earlier ones:
// defaults, the kernel command line, the environment, then flags.
type Config struct {
	ThemeDir    string
	Theme       string
	FIFO        string
	Framebuffer string
	StdioLog    string
	BootType    theme.BootType
	Mode        theme.Mode
	Effects     state.Effects
	SilentTTY   int
	VerboseTTY  int
	// KDGraphics puts the silent console into KD_GRAPHICS mode.
	KDGraphics bool
	// Insane keeps painting when the silent console is not in front.
	Insane bool
	Debug  bool
}

func DefaultConfig() Config {
	return Config{
		ThemeDir:    "/etc/splash",
		Theme:       "default",
		FIFO:        control.DefaultFIFO,
		Framebuffer: system.DefaultFramebuffer,
		BootType:    theme.BootUp,
		Mode:        theme.ModeVerbose,
		SilentTTY:   8,
		VerboseTTY:  1,
		KDGraphics:  true,
	}
}

// ApplyCmdline reads the splash= option of a kernel command line, a comma
// separated list such as "silent,fadein,theme:gentoo,tty:8". Parameters
// are split with the kernel's double-quote rules. Unknown options are
// reported but do not stop the others from applying.
func (c *Config) ApplyCmdline(cmdline string) error {
	var bad []string
	fields, err := shlex.Split(cmdline)
	if err != nil {
		bad = append(bad, err.Error())
		fields = strings.Fields(cmdline)
	}
	for _, field := range fields {
		val, ok := strings.CutPrefix(field, "splash=")
		if !ok {
			continue
		}
		for _, opt := range strings.Split(val, ",") {
			if err := c.applyOption(opt); err != nil {
				bad = append(bad, err.Error())
			}
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("kernel cmdline: %s", strings.Join(bad, "; "))
	}
	return nil
}

func (c *Config) applyOption(opt string) error {
	key, arg, hasArg := strings.Cut(opt, ":")
	switch key {
	case "":
		return nil
	case "silent":
		c.Mode = theme.ModeSilent
	case "verbose":
		c.Mode = theme.ModeVerbose
	case "fadein":
		c.Effects.FadeIn = true
	case "fadeout":
		c.Effects.FadeOut = true
	case "kdgraphics":
		c.KDGraphics = true
	case "nokdgraphics":
		c.KDGraphics = false
	case "insane":
		c.Insane = true
	case "theme":
		if !hasArg || arg == "" || strings.Contains(arg, "/") {
			return fmt.Errorf("bad theme %q", arg)
		}
		c.Theme = arg
	case "tty":
		n, err := strconv.Atoi(arg)
		if !hasArg || err != nil || n < 1 || n > 63 {
			return fmt.Errorf("bad tty %q", arg)
		}
		c.SilentTTY = n
	default:
		return fmt.Errorf("unknown option %q", opt)
	}
	return nil
}

// ApplyEnv overrides fields from SPLASH_* variables looked up with getenv.
// An invalid value is an error; the other variables still apply.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str(EnvThemeDir, &c.ThemeDir)
	str(EnvTheme, &c.Theme)
	str(EnvFIFO, &c.FIFO)
	str(EnvFB, &c.Framebuffer)
	str(EnvStdioLog, &c.StdioLog)

	var errs []string
	if v := strings.TrimSpace(getenv(EnvBootType)); v != "" {
		bt, ok := theme.ParseBootType(v)
		if !ok {
			errs = append(errs, fmt.Sprintf("invalid %s %q", EnvBootType, v))
		} else {
			c.BootType = bt
		}
	}
	if v := strings.TrimSpace(getenv(EnvDebug)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s %q", EnvDebug, v))
		} else {
			c.Debug = b
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
