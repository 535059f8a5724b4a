package script

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/splashd/internal/control"
)

func TestBootStepsParse(t *testing.T) {
	var last int
	for _, step := range BootSteps() {
		cmd, err := control.Parse(step.Line)
		if err != nil {
			t.Fatalf("%q: %v", step.Line, err)
		}
		if cmd.Kind == control.SetProgress {
			if cmd.Int < last {
				t.Errorf("progress went backwards: %d after %d", cmd.Int, last)
			}
			last = cmd.Int
		}
	}
	if last != 65535 {
		t.Errorf("boot ends at progress %d, want 65535", last)
	}
}

func TestBootScriptPause(t *testing.T) {
	b := New([]Step{{0, "log one"}, {0, "log two"}})
	if !b.TogglePause() {
		t.Fatal("TogglePause did not pause")
	}

	got := make(chan control.Command, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = b.Run(ctx, func(cmd control.Command) bool {
			got <- cmd
			return true
		})
	}()

	select {
	case cmd := <-got:
		t.Fatalf("paused script ran %v", cmd.Kind)
	case <-time.After(50 * time.Millisecond):
	}
	if b.TogglePause() {
		t.Fatal("TogglePause did not resume")
	}
	for _, want := range []string{"one", "two"} {
		select {
		case cmd := <-got:
			if cmd.Text != want {
				t.Errorf("got %q, want %q", cmd.Text, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("step %q never ran", want)
		}
	}
}

type lines []string

func (l lines) Run(ctx context.Context, handle func(control.Command) bool) error {
	for _, line := range l {
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

func TestMultiSourceStopsOnExit(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []control.Kind
	)
	m := Multi{lines{"log a"}, lines{"paint", "exit"}}
	done := make(chan error, 1)
	go func() {
		done <- m.Run(context.Background(), func(cmd control.Command) bool {
			mu.Lock()
			seen = append(seen, cmd.Kind)
			mu.Unlock()
			return cmd.Kind != control.Exit
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("exit did not stop the other sources")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("dispatched %v", seen)
	}
}
