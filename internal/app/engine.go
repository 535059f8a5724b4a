package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rook-computer/splashd/internal/render"
	"github.com/rook-computer/splashd/internal/theme"
)

// LoadTheme loads theme name from the theme directory for the current
// screen without installing it.
func (app *App) LoadTheme(name string) (*theme.Theme, error) {
	if app.renderer == nil {
		return nil, errors.New("renderer not open")
	}
	return theme.Load(filepath.Join(app.Config.ThemeDir, name), theme.LoadOptions{
		Screen:   app.renderer.Screen(),
		BootType: app.Config.BootType,
		Logger:   app.Logger,
		Runner:   app.Runner,
	})
}

// SetTheme replaces the current theme with name and repaints. The new
// theme starts from the recorded service states and textbox setting.
func (app *App) SetTheme(name string) error { return app.setTheme(name, true) }

func (app *App) setTheme(name string, paint bool) error {
	th, err := app.LoadTheme(name)
	if err != nil {
		return err
	}
	s := app.Store.Snapshot()
	now := time.Now()
	th.ApplyServices(s.Services, now)
	th.SetTextBox(s.Textbox, now)

	app.paintMu.Lock()
	old := app.theme
	app.theme = th
	app.paintMu.Unlock()
	if old != nil {
		old.Free()
	}
	app.Store.SetTheme(name)
	app.kickScheduler()
	if !paint {
		return nil
	}
	return app.RenderFull(true)
}

// FreeTheme drops the current theme and its resources.
func (app *App) FreeTheme() {
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	if app.theme != nil {
		app.theme.Free()
		app.theme = nil
	}
}

// Theme returns the installed theme, nil if none is loaded.
func (app *App) Theme() *theme.Theme {
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	return app.theme
}

// withTheme runs f on the installed theme under the paint lock.
func (app *App) withTheme(f func(th *theme.Theme)) {
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	if app.theme != nil {
		f(app.theme)
	}
}

// SetProgress records p (0..theme.MaxProgress) and repaints what depends
// on it.
func (app *App) SetProgress(p int) error {
	if !app.Store.SetProgress(p) {
		return nil
	}
	app.withTheme(func(th *theme.Theme) { th.InvalidateProgress() })
	return app.RenderIncremental()
}

// NotifyService records a service state change and shows or hides the
// objects bound to it.
func (app *App) NotifyService(name string, st theme.SvcState) error {
	app.Store.UpdateService(name, st)
	changed := 0
	app.withTheme(func(th *theme.Theme) { changed = th.NotifyService(name, st, time.Now()) })
	if changed == 0 {
		return nil
	}
	app.kickScheduler()
	return app.RenderIncremental()
}

func (app *App) SetMessage(msg string) error {
	app.Store.SetMessage(msg)
	app.withTheme(func(th *theme.Theme) { th.InvalidateMessage() })
	return app.RenderIncremental()
}

// Log appends a line to the message log shown in the textbox.
func (app *App) Log(line string) error {
	app.Store.AppendLog(line)
	app.withTheme(func(th *theme.Theme) { th.InvalidateMessage() })
	return app.RenderIncremental()
}

func (app *App) SetTextbox(on bool) error {
	if !app.Store.SetTextbox(on) {
		return nil
	}
	return app.showTextbox(on)
}

func (app *App) ToggleTextbox() error {
	return app.showTextbox(app.Store.ToggleTextbox())
}

func (app *App) showTextbox(on bool) error {
	app.withTheme(func(th *theme.Theme) { th.SetTextBox(on, time.Now()) })
	app.kickScheduler()
	return app.RenderIncremental()
}

// SetMode switches between silent and verbose mode.
func (app *App) SetMode(m theme.Mode) error {
	if !app.Store.SetMode(m) {
		return nil
	}
	return app.applyMode(m)
}

func (app *App) ToggleMode() error {
	return app.applyMode(app.Store.ToggleMode())
}

// applyMode moves the consoles to mode m and repaints the screen. Silent
// mode takes over the silent tty; verbose mode hands the verbose tty back
// to the kernel console.
func (app *App) applyMode(m theme.Mode) error {
	s := app.Store.Snapshot()
	app.consoleMu.Lock()
	if app.Console != nil {
		if m == theme.ModeSilent {
			_ = app.Console.Activate(s.SilentTTY)
			if app.Config.KDGraphics {
				_ = app.Console.Graphics(s.SilentTTY, true)
			}
			_ = app.Console.Cursor(s.SilentTTY, false)
		} else {
			_ = app.Console.Graphics(s.SilentTTY, false)
			_ = app.Console.Cursor(s.SilentTTY, true)
			_ = app.Console.Activate(app.Config.VerboseTTY)
		}
		app.displayed = app.Config.Insane || m == theme.ModeSilent || app.Config.VerboseTTY == s.SilentTTY
	}
	app.consoleMu.Unlock()
	app.Logger.Infof("app", "%v mode", m)
	app.kickScheduler()

	if m == theme.ModeSilent && s.Effects.FadeIn {
		return app.fadeIn()
	}
	return app.RenderFull(true)
}

// SetSilentTTY moves the silent splash to another console.
func (app *App) SetSilentTTY(tty int) error {
	if !app.Store.SetSilentTTY(tty) {
		return nil
	}
	if app.Console == nil {
		return nil
	}
	if app.ctx != nil {
		app.startMonitor()
	}
	if app.Store.Snapshot().Mode == theme.ModeSilent {
		return app.applyMode(theme.ModeSilent)
	}
	return nil
}

// RenderIncremental repaints the regions invalidated since the last pass.
func (app *App) RenderIncremental() error { return app.render(false) }

// RenderFull recomputes every object. With force the whole screen is
// repainted and flushed, as needed after something else drew on it;
// otherwise only regions that changed are pushed.
func (app *App) RenderFull(force bool) error {
	if !force {
		app.withTheme(func(th *theme.Theme) { th.InvalidateAll() })
	}
	return app.render(force)
}

func (app *App) render(full bool) error {
	app.consoleMu.Lock()
	defer app.consoleMu.Unlock()
	if !app.displayed {
		return nil
	}
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	return app.renderLocked(full)
}

func (app *App) frame() *theme.Frame {
	s := app.Store.Snapshot()
	return &theme.Frame{Progress: s.Progress, Mode: s.Mode, Message: s.Message, Log: s.Log, Now: time.Now()}
}

// renderLocked runs one pass with both locks held. While a fade owns the
// screen the buffer is kept current without flushing; the first pass after
// the fade pushes the whole screen.
func (app *App) renderLocked(full bool) error {
	th := app.theme
	if th == nil || app.renderer == nil || app.closing {
		return nil
	}
	f := app.frame()
	if app.fade != nil {
		select {
		case <-app.fade.Done():
			app.fade = nil
			full = true
		default:
			_, err := app.renderer.Compose(th, f, full)
			return err
		}
	}
	_, err := app.renderer.Render(th, f, full)
	if errors.Is(err, render.ErrUnsupportedDepth) {
		if !full {
			return nil
		}
		return render.PaintPaletted(app.Surface, th, f.Mode)
	}
	return err
}

// fadeIn composes the whole screen and fades it in from black in the
// background. Commands keep updating the buffer meanwhile.
func (app *App) fadeIn() error {
	app.consoleMu.Lock()
	defer app.consoleMu.Unlock()
	if !app.displayed {
		return nil
	}
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	th := app.theme
	if th == nil || app.fade != nil || app.renderer.Screen().Format.BitsPerPixel <= 8 {
		return app.renderLocked(true)
	}
	if _, err := app.renderer.Compose(th, app.frame(), true); err != nil {
		return fmt.Errorf("compose for fade: %w", err)
	}
	job := render.StartFade(app.runCtx(), app.Surface, app.renderer.Buffer(), render.FadeIn, render.FadeOptions{})
	app.fade = job
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := job.Wait(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Errorf("render", "fade in: %v", err)
		}
		if err := app.RenderFull(true); err != nil {
			app.Logger.Errorf("render", "after fade: %v", err)
		}
	}()
	return nil
}

// fadeOut fades the screen to black before exit when the effect is on.
func (app *App) fadeOut(ctx context.Context) {
	if !app.Store.Snapshot().Effects.FadeOut {
		return
	}
	app.consoleMu.Lock()
	defer app.consoleMu.Unlock()
	if !app.displayed {
		return
	}
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	if app.theme == nil || app.renderer == nil || app.renderer.Screen().Format.BitsPerPixel <= 8 {
		return
	}
	if app.fade != nil {
		<-app.fade.Done()
		app.fade = nil
	}
	app.closing = true
	err := render.Fade(ctx, app.Surface, app.renderer.Buffer(), render.FadeOut, render.FadeOptions{})
	if err != nil {
		app.Logger.Errorf("render", "fade out: %v", err)
	}
}
