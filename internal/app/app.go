package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/splashd/internal/buttons"
	"github.com/rook-computer/splashd/internal/control"
	"github.com/rook-computer/splashd/internal/render"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/system"
	"github.com/rook-computer/splashd/internal/theme"
)

// CommandSource delivers control commands until its context ends or
// handle returns false.
type CommandSource interface {
	Run(ctx context.Context, handle func(control.Command) bool) error
}

// App is the splash controller. It owns the loaded theme and the renderer,
// applies commands and key presses to them, and keeps animations running.
//
// paintMu guards the theme, the renderer and the fade; consoleMu guards
// which console is in front. When both are needed consoleMu is taken
// first.
type App struct {
	Store    *state.Store
	Config   Config
	Surface  render.Surface
	Console  Console
	Commands CommandSource
	Buttons  buttons.Buttons
	Runner   theme.Runner
	Logger   Logger
	Debug    bool

	paintMu  sync.Mutex
	renderer *render.Renderer
	theme    *theme.Theme
	fade     *render.FadeJob
	closing  bool

	consoleMu     sync.Mutex
	displayed     bool
	vtErrLogged   bool
	monitorCancel context.CancelFunc

	ctx  context.Context
	kick chan struct{}
	wg   sync.WaitGroup

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, cfg Config, out render.Surface, buttonDriver buttons.Buttons) *App {
	return &App{
		Store:   store,
		Config:  cfg,
		Surface: out,
		Buttons: buttonDriver,
		Logger:  NoopLogger{},
		kick:    make(chan struct{}, 1),
		exitCh:  make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// OpenSurface maps the framebuffer at path, falling back to the generic
// framebuffer driver when the device cannot be probed directly.
func OpenSurface(path string, logger Logger) (render.Surface, error) {
	fb, err := system.OpenFramebuffer(path)
	if err == nil {
		logger.Infof("fb", "%s: %dx%d %v", path, fb.Screen().XRes, fb.Screen().YRes, fb.Screen().Format)
		return fb, nil
	}
	logger.Errorf("fb", "direct access failed, using compatibility driver: %v", err)
	dev, devErr := render.OpenDevice(path)
	if devErr != nil {
		return nil, errors.Join(err, devErr)
	}
	return dev, nil
}

// Open prepares the renderer for the surface and loads the configured
// theme. A theme that fails to load is logged; the app keeps running so a
// later "set theme" can recover.
func (app *App) Open() error {
	if app.renderer != nil {
		return nil
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.kick == nil {
		app.kick = make(chan struct{}, 1)
	}
	if app.Surface == nil {
		out, err := OpenSurface(app.Config.Framebuffer, app.Logger)
		if err != nil {
			return fmt.Errorf("open framebuffer: %w", err)
		}
		app.Surface = out
	}
	r, err := render.New(app.Surface)
	if err != nil {
		return err
	}
	r.Logger = app.Logger
	r.Debug = app.Debug
	app.renderer = r

	scr := r.Screen()
	if scr.Format.Visual == pixfmt.DirectColor {
		if err := app.Surface.SetColormap(pixfmt.LinearColormap(scr.Format)); err != nil {
			app.Logger.Errorf("fb", "linear colormap: %v", err)
		}
	}

	app.Store.SetMode(app.Config.Mode)
	app.Store.SetEffects(app.Config.Effects)
	app.Store.SetSilentTTY(app.Config.SilentTTY)
	app.displayed = true
	if app.Console != nil {
		app.displayed = app.consoleInFront()
	}

	if app.Config.Theme != "" {
		if err := app.setTheme(app.Config.Theme, false); err != nil {
			app.Logger.Errorf("theme", "load %s: %v", app.Config.Theme, err)
		}
	}
	return nil
}

func (app *App) runCtx() context.Context {
	if app.ctx != nil {
		return app.ctx
	}
	return context.Background()
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.ctx = runCtx

	if err := app.Open(); err != nil {
		app.Logger.Errorf("app", "open error: %v", err)
		return err
	}
	defer app.close()

	if app.Buttons != nil {
		if err := app.Buttons.Start(runCtx); err != nil {
			app.Logger.Errorf("input", "buttons start error: %v", err)
		} else {
			app.wg.Add(1)
			go func() {
				defer app.wg.Done()
				app.watchButtons(runCtx)
			}()
		}
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.animate(runCtx)
	}()

	if app.Console != nil {
		app.startMonitor()
	}

	if err := app.applyMode(app.Config.Mode); err != nil {
		app.Logger.Errorf("app", "initial paint: %v", err)
	}

	if app.Commands != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			if err := app.Commands.Run(runCtx, app.Dispatch); err != nil {
				app.Logger.Errorf("control", "command reader stopped: %v", err)
			}
		}()
	}

	// Wait for an exit command or cancellation.
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	if err == nil {
		app.fadeOut(ctx)
	}
	cancel()
	app.wg.Wait()
	return err
}

// close gives the console back and releases the theme and the surface.
func (app *App) close() {
	if app.Buttons != nil {
		_ = app.Buttons.Stop()
	}
	if app.Console != nil {
		tty := app.Store.Snapshot().SilentTTY
		_ = app.Console.Cursor(tty, true)
		_ = app.Console.Graphics(tty, false)
	}
	app.FreeTheme()
	if app.Surface != nil {
		if err := app.Surface.Close(); err != nil {
			app.Logger.Errorf("fb", "close: %v", err)
		}
	}
}

func (app *App) watchButtons(ctx context.Context) {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var err error
			switch ev {
			case buttons.ToggleVerbose:
				err = app.ToggleMode()
			case buttons.ToggleTextbox:
				err = app.ToggleTextbox()
			}
			if err != nil {
				app.Logger.Errorf("input", "%s: %v", ev, err)
			}
		}
	}
}

// Dispatch applies one control command. It returns false once the command
// asked the daemon to exit.
func (app *App) Dispatch(cmd control.Command) bool {
	var err error
	switch cmd.Kind {
	case control.SetProgress:
		err = app.SetProgress(cmd.Int)
	case control.SetMode:
		err = app.SetMode(cmd.Mode)
	case control.SetMessage:
		err = app.SetMessage(cmd.Text)
	case control.SetTheme:
		err = app.SetTheme(cmd.Text)
	case control.SetEffects:
		app.Store.SetEffects(cmd.Effects)
	case control.SetTextbox:
		err = app.SetTextbox(cmd.On)
	case control.SetSilentTTY:
		err = app.SetSilentTTY(cmd.Int)
	case control.UpdateService:
		err = app.NotifyService(cmd.Text, cmd.State)
	case control.Log:
		err = app.Log(cmd.Text)
	case control.Paint:
		err = app.RenderIncremental()
	case control.Repaint:
		err = app.RenderFull(true)
	case control.Exit:
		app.Logger.Infof("control", "exit requested")
		app.Exit(nil)
		return false
	}
	if err != nil {
		app.Logger.Errorf("control", "%v: %v", cmd.Kind, err)
	}
	return true
}
