package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/splashd/internal/app"
	"github.com/rook-computer/splashd/internal/buttons"
	"github.com/rook-computer/splashd/internal/control"
	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/system"
	"github.com/rook-computer/splashd/internal/theme"
)

func main() {
	cfg := app.DefaultConfig()
	cmdline, err := system.KernelCmdline("/proc/cmdline")
	if err != nil {
		fmt.Println("kernel cmdline:", err)
	}
	cmdlineErr := cfg.ApplyCmdline(cmdline)
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Flags
	themeDir := flag.String("theme-dir", cfg.ThemeDir, "directory holding the themes; also configurable via "+app.EnvThemeDir)
	themeName := flag.String("theme", cfg.Theme, "theme to load; also configurable via "+app.EnvTheme)
	fifo := flag.String("fifo", cfg.FIFO, "control FIFO path; also configurable via "+app.EnvFIFO)
	fb := flag.String("fb", cfg.Framebuffer, "framebuffer device; also configurable via "+app.EnvFB)
	stdioLog := flag.String("stdio-log", cfg.StdioLog, "redirect stdout+stderr (including panics) to this file; also configurable via "+app.EnvStdioLog)
	bootType := flag.String("boot-type", cfg.BootType.String(), "bootup | reboot | shutdown | suspend | resume; also configurable via "+app.EnvBootType)
	mode := flag.String("mode", cfg.Mode.String(), "initial mode: silent | verbose")
	debug := flag.Bool("debug", cfg.Debug, "enable debug logging; also configurable via "+app.EnvDebug)
	debugLog := flag.String("debug-log", "/lib/splash/cache/splashd-debug.log", "debug log file")
	send := flag.Bool("send", false, "send the remaining arguments as commands to a running daemon and exit")
	flag.Parse()

	if *send {
		if err := control.Send(*fifo, flag.Args()...); err != nil {
			fmt.Println("send error:", err)
			os.Exit(1)
		}
		return
	}

	cfg.ThemeDir, cfg.Theme, cfg.FIFO, cfg.Framebuffer = *themeDir, *themeName, *fifo, *fb
	cfg.StdioLog, cfg.Debug = *stdioLog, *debug
	bt, ok := theme.ParseBootType(*bootType)
	if !ok {
		fmt.Println("invalid -boot-type:", *bootType)
		os.Exit(2)
	}
	cfg.BootType = bt
	m, ok := theme.ParseMode(*mode)
	if !ok {
		fmt.Println("invalid -mode:", *mode)
		os.Exit(2)
	}
	cfg.Mode = m

	// Best-effort: the console is usually in graphics mode, so panics would
	// otherwise be lost.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		f, err := os.OpenFile(*debugLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}
	if cmdlineErr != nil {
		logger.Errorf("main", "%v", cmdlineErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore(state.DefaultLogLines)
	commands := control.NewReader(cfg.FIFO)
	commands.Logger = logger

	a := app.New(store, cfg, nil, buttons.NewKeyboard(logger))
	a.Logger = logger
	a.Debug = cfg.Debug
	a.Console = app.SystemConsole{Logger: logger}
	a.Runner = system.ShellRunner{Logger: logger}
	a.Commands = commands

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("splashd error:", err)
		os.Exit(1)
	}
}
