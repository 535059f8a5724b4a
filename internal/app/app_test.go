package app

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/splashd/internal/control"
	"github.com/rook-computer/splashd/internal/render"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/state"
	"github.com/rook-computer/splashd/internal/theme"
)

var testScreen = pixfmt.Screen{XRes: 160, YRes: 120, Format: pixfmt.XRGB8888}

func writeTheme(t *testing.T, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	themeDir := filepath.Join(dir, "test")
	if err := os.MkdirAll(themeDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(themeDir, "160x120.cfg"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = 255, 255
	}
	f, err := os.Create(filepath.Join(themeDir, "svc.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestApp(t *testing.T, cfgText string, mutate func(*Config)) (*App, *render.MemorySurface) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ThemeDir = writeTheme(t, cfgText)
	cfg.Theme = "test"
	cfg.Mode = theme.ModeSilent
	if mutate != nil {
		mutate(&cfg)
	}
	out := render.NewMemorySurface(testScreen)
	a := New(state.NewStore(0), cfg, out, nil)
	return a, out
}

func rgbAt(out *render.MemorySurface, x, y int) (uint8, uint8, uint8) {
	scr := out.Screen()
	return pixfmt.NewCodec(scr.Format).Unpack(out.Pixels()[scr.Offset(x, y):])
}

func TestEngineRendersTheme(t *testing.T) {
	a, out := newTestApp(t, "box silent 0 0 99 99 #ff0000\n", nil)
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	if a.Theme() == nil {
		t.Fatal("theme not loaded")
	}
	if out.Flushes() != 0 {
		t.Errorf("Open painted before the mode was applied")
	}
	if err := a.RenderFull(true); err != nil {
		t.Fatal(err)
	}
	if r, g, b := rgbAt(out, 50, 50); r != 255 || g != 0 || b != 0 {
		t.Errorf("box pixel = %d,%d,%d, want red", r, g, b)
	}
}

func TestEngineServiceAndProgress(t *testing.T) {
	cfg := "box silent inter 0 100 0 109 #00ff00\n" +
		"box silent 0 100 159 109 #00ff00\n" +
		"icon svc.png 20 30 svc_started foo\n"
	a, out := newTestApp(t, cfg, nil)
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	if err := a.RenderFull(true); err != nil {
		t.Fatal(err)
	}
	if _, g, _ := rgbAt(out, 150, 105); g == 255 {
		t.Fatalf("progress bar full at 0%%")
	}
	if _, _, b := rgbAt(out, 21, 31); b == 255 {
		t.Fatalf("icon shown before its service started")
	}

	if err := a.NotifyService("foo", theme.SvcStarted); err != nil {
		t.Fatal(err)
	}
	if _, _, b := rgbAt(out, 21, 31); b != 255 {
		t.Errorf("icon not painted after svc_started")
	}
	if got := a.Store.Snapshot().Services["foo"]; got != theme.SvcStarted {
		t.Errorf("service state not recorded: %v", got)
	}

	if err := a.SetProgress(theme.MaxProgress); err != nil {
		t.Fatal(err)
	}
	if _, g, _ := rgbAt(out, 150, 105); g != 255 {
		t.Errorf("progress bar not extended at 100%%")
	}

	flushes := out.Flushes()
	if err := a.SetProgress(theme.MaxProgress); err != nil {
		t.Fatal(err)
	}
	if out.Flushes() != flushes {
		t.Errorf("unchanged progress caused a flush")
	}
}

func TestThemeSwitchKeepsServiceState(t *testing.T) {
	a, out := newTestApp(t, "icon svc.png 20 30 svc_started foo\n", nil)
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	if err := a.NotifyService("foo", theme.SvcStarted); err != nil {
		t.Fatal(err)
	}
	if err := a.SetTheme("test"); err != nil {
		t.Fatal(err)
	}
	if _, _, b := rgbAt(out, 21, 31); b != 255 {
		t.Errorf("reloaded theme lost the service state")
	}
	if err := a.SetTheme("missing"); err == nil {
		t.Errorf("loading a missing theme succeeded")
	}
	if a.Theme() == nil {
		t.Errorf("failed load dropped the current theme")
	}
}

func TestDispatch(t *testing.T) {
	a, _ := newTestApp(t, "box silent 0 0 9 9 #ffffff\n", nil)
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"set progress 1000",
		"set message hello",
		"log one",
		"set textbox on",
		"set effects fadeout",
		"update_svc sshd svc_start",
		"repaint",
	} {
		cmd, err := control.Parse(line)
		if err != nil {
			t.Fatal(err)
		}
		if !a.Dispatch(cmd) {
			t.Fatalf("%q stopped the dispatcher", line)
		}
	}
	s := a.Store.Snapshot()
	if s.Progress != 1000 || s.Message != "hello" || len(s.Log) != 1 || !s.Textbox || !s.Effects.FadeOut {
		t.Errorf("state after commands: %+v", s)
	}
	if a.Dispatch(control.Command{Kind: control.Exit}) {
		t.Errorf("exit did not stop the dispatcher")
	}
	select {
	case err := <-a.exitCh:
		if err != nil {
			t.Errorf("exit error = %v", err)
		}
	default:
		t.Errorf("exit not signalled")
	}
}

type fakeConsole struct {
	mu       sync.Mutex
	active   int
	graphics map[int]bool
	cursor   map[int]bool
}

func newFakeConsole(active int) *fakeConsole {
	return &fakeConsole{active: active, graphics: map[int]bool{}, cursor: map[int]bool{}}
}

func (c *fakeConsole) ActiveVT() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, nil
}

func (c *fakeConsole) Activate(tty int) error {
	c.mu.Lock()
	c.active = tty
	c.mu.Unlock()
	return nil
}

func (c *fakeConsole) Graphics(tty int, on bool) error {
	c.mu.Lock()
	c.graphics[tty] = on
	c.mu.Unlock()
	return nil
}

func (c *fakeConsole) Cursor(tty int, visible bool) error {
	c.mu.Lock()
	c.cursor[tty] = visible
	c.mu.Unlock()
	return nil
}

func TestModeSwitchDrivesConsole(t *testing.T) {
	con := newFakeConsole(1)
	a, out := newTestApp(t, "box silent 0 0 9 9 #ff0000\n", func(c *Config) { c.Mode = theme.ModeVerbose })
	a.Console = con
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	if err := a.RenderFull(true); err != nil {
		t.Fatal(err)
	}
	if out.Flushes() != 0 {
		t.Fatalf("painted while the silent tty is in the background")
	}

	if err := a.SetMode(theme.ModeSilent); err != nil {
		t.Fatal(err)
	}
	con.mu.Lock()
	active, gfx, cur := con.active, con.graphics[8], con.cursor[8]
	con.mu.Unlock()
	if active != 8 || !gfx || cur {
		t.Errorf("silent mode: active tty%d graphics=%v cursor=%v", active, gfx, cur)
	}
	if r, _, _ := rgbAt(out, 5, 5); r != 255 {
		t.Errorf("silent splash not painted")
	}

	if err := a.ToggleMode(); err != nil {
		t.Fatal(err)
	}
	con.mu.Lock()
	active, gfx = con.active, con.graphics[8]
	con.mu.Unlock()
	if active != 1 || gfx {
		t.Errorf("verbose mode: active tty%d graphics=%v", active, gfx)
	}
}

func TestConsoleMonitorRepaintsOnReturn(t *testing.T) {
	con := newFakeConsole(2)
	a, out := newTestApp(t, "box silent 0 0 9 9 #ff0000\n", nil)
	a.Console = con
	if err := a.Open(); err != nil {
		t.Fatal(err)
	}
	a.checkConsole()
	if err := a.SetProgress(10); err != nil {
		t.Fatal(err)
	}
	if out.Flushes() != 0 {
		t.Fatalf("painted over another console")
	}
	_ = con.Activate(8)
	a.checkConsole()
	if out.Flushes() == 0 {
		t.Errorf("no repaint when the silent tty came back")
	}
}

type scriptSource []string

func (s scriptSource) Run(ctx context.Context, handle func(control.Command) bool) error {
	for _, line := range s {
		cmd, err := control.Parse(line)
		if err != nil {
			return err
		}
		if !handle(cmd) {
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

func TestStartRunsCommandsUntilExit(t *testing.T) {
	a, out := newTestApp(t, "box silent inter 0 0 0 9 #00ff00\nbox silent 0 0 159 9 #00ff00\n", nil)
	a.Commands = scriptSource{"set progress 65535", "exit"}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start = %v", err)
	}
	if _, g, _ := rgbAt(out, 150, 5); g != 255 {
		t.Errorf("progress command not rendered")
	}
	if a.Theme() != nil {
		t.Errorf("theme not freed on exit")
	}
}

func TestSchedulerRunsBlends(t *testing.T) {
	a, out := newTestApp(t, "box silent 0 0 9 9 #ff0000 blendin(60)\n", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if r, _, _ := rgbAt(out, 5, 5); r == 255 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("blend never reached full opacity")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
}
