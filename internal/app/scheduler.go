package app

import (
	"context"
	"time"
)

// consolePoll is how often the console monitor checks the foreground VT.
const consolePoll = 250 * time.Millisecond

// kickScheduler wakes the animation loop so it recomputes its deadline.
func (app *App) kickScheduler() {
	select {
	case app.kick <- struct{}{}:
	default:
	}
}

// animate steps blends and animations. It sleeps until the earliest frame
// deadline across the theme, or until kicked after a change that may have
// started a new one.
func (app *App) animate(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		changed, next := app.advance(time.Now())
		if changed {
			if err := app.RenderIncremental(); err != nil {
				app.Logger.Errorf("anim", "render: %v", err)
			}
		}
		var wait <-chan time.Time
		if !next.IsZero() {
			timer.Reset(time.Until(next))
			wait = timer.C
		}
		select {
		case <-ctx.Done():
			return
		case <-app.kick:
			timer.Stop()
		case <-wait:
		}
	}
}

func (app *App) advance(now time.Time) (changed bool, next time.Time) {
	mode := app.Store.Snapshot().Mode
	app.paintMu.Lock()
	defer app.paintMu.Unlock()
	if app.theme == nil {
		return false, time.Time{}
	}
	return app.theme.Advance(mode, now)
}

// startMonitor (re)starts the console monitor, cancelling the previous
// one. The old monitor stops at its next poll.
func (app *App) startMonitor() {
	ctx, cancel := context.WithCancel(app.runCtx())
	app.consoleMu.Lock()
	if app.monitorCancel != nil {
		app.monitorCancel()
	}
	app.monitorCancel = cancel
	app.consoleMu.Unlock()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		ticker := time.NewTicker(consolePoll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			app.checkConsole()
		}
	}()
}

// consoleInFront reports whether the splash may paint: the silent tty is
// the foreground console, or insane mode paints regardless. When the VT
// state cannot be read the splash keeps painting.
func (app *App) consoleInFront() bool {
	if app.Config.Insane {
		return true
	}
	active, err := app.Console.ActiveVT()
	if err != nil {
		if !app.vtErrLogged {
			app.Logger.Errorf("console", "cannot read the active VT: %v", err)
			app.vtErrLogged = true
		}
		return true
	}
	return active == app.Store.Snapshot().SilentTTY
}

// checkConsole tracks the foreground console and repaints everything when
// the silent tty comes back, since whatever was shown meanwhile drew over
// the framebuffer.
func (app *App) checkConsole() {
	app.consoleMu.Lock()
	was := app.displayed
	now := app.consoleInFront()
	app.displayed = now
	app.consoleMu.Unlock()
	if now && !was {
		app.Logger.Infof("console", "silent tty back in front, repainting")
		if err := app.RenderFull(true); err != nil {
			app.Logger.Errorf("console", "repaint: %v", err)
		}
	}
}
