// Command simulator runs the splash engine in a desktop window so themes
// can be developed without a framebuffer console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rook-computer/splashd/internal/app"
	"github.com/rook-computer/splashd/internal/control"
	"github.com/rook-computer/splashd/internal/render"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/system"
	"github.com/rook-computer/splashd/internal/theme"
	"github.com/rook-computer/splashd/simulator/script"
)

var depths = map[int]pixfmt.Format{
	8:  pixfmt.Indexed8,
	15: pixfmt.RGB555,
	16: pixfmt.RGB565,
	24: pixfmt.RGB888,
	32: pixfmt.XRGB8888,
}

func main() {
	cfg := app.DefaultConfig()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	themeDir := flag.String("theme-dir", cfg.ThemeDir, "directory holding the themes; also configurable via "+app.EnvThemeDir)
	themeName := flag.String("theme", cfg.Theme, "theme to load; also configurable via "+app.EnvTheme)
	width := flag.Int("width", 1024, "screen width")
	height := flag.Int("height", 768, "screen height")
	depth := flag.Int("depth", 32, "bits per pixel: 8 | 15 | 16 | 24 | 32")
	scale := flag.Int("scale", 1, "window scale factor")
	mode := flag.String("mode", "silent", "initial mode: silent | verbose")
	bootType := flag.String("boot-type", cfg.BootType.String(), "bootup | reboot | shutdown | suspend | resume")
	cmdline := flag.String("cmdline", "", "splash= kernel options to apply, e.g. splash=silent,fadein")
	fifo := flag.String("fifo", "", "also accept commands on this FIFO (optional)")
	noBoot := flag.Bool("no-boot", false, "do not play the simulated boot sequence")
	noExec := flag.Bool("no-exec", false, "show exec texts empty instead of running their commands")
	debug := flag.Bool("debug", cfg.Debug, "log to stderr")
	flag.Parse()

	format, ok := depths[*depth]
	if !ok {
		fmt.Println("unsupported -depth:", *depth)
		os.Exit(2)
	}
	scr := pixfmt.Screen{XRes: *width, YRes: *height, Format: format}
	if err := scr.Validate(); err != nil {
		fmt.Println("screen:", err)
		os.Exit(2)
	}

	cfg.ThemeDir, cfg.Theme, cfg.Debug = *themeDir, *themeName, *debug
	var okMode, okBoot bool
	if cfg.Mode, okMode = theme.ParseMode(*mode); !okMode {
		fmt.Println("invalid -mode:", *mode)
		os.Exit(2)
	}
	if cfg.BootType, okBoot = theme.ParseBootType(*bootType); !okBoot {
		fmt.Println("invalid -boot-type:", *bootType)
		os.Exit(2)
	}
	if err := cfg.ApplyCmdline(*cmdline); err != nil {
		fmt.Println(err)
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		logger = app.NewFileLogger(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := render.NewMemorySurface(scr)
	win := newWindow(out)

	boot := script.NewBoot()
	var sources script.Multi
	if !*noBoot {
		sources = append(sources, boot)
	}
	if *fifo != "" {
		r := control.NewReader(*fifo)
		r.Logger = logger
		sources = append(sources, r)
	}

	a := app.New(state.NewStore(state.DefaultLogLines), cfg, out, nil)
	a.Logger = logger
	a.Debug = cfg.Debug
	a.Runner = system.ShellRunner{Logger: logger}
	if *noExec {
		a.Runner = system.NoopRunner{}
	}
	a.Commands = sources
	win.app = a
	win.boot = boot

	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()
	win.done = done

	ebiten.SetWindowTitle(fmt.Sprintf("splash simulator: %s %dx%d-%d", cfg.Theme, scr.XRes, scr.YRes, *depth))
	zoom := max(*scale, 1)
	ebiten.SetWindowSize(scr.XRes*zoom, scr.YRes*zoom)
	ebiten.SetTPS(60)
	runErr := ebiten.RunGame(win)
	if errors.Is(runErr, ebiten.Termination) {
		runErr = nil
	}
	var appErr error
	if win.finished {
		appErr = win.result
	} else {
		a.Exit(nil)
		appErr = <-done
	}
	if errors.Is(appErr, context.Canceled) {
		appErr = nil
	}
	if err := errors.Join(runErr, appErr); err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}
