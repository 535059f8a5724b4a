//go:build linux

package control

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestReaderServesSuccessiveWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", ".splash")
	r := NewReader(path)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan Command, 8)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, func(c Command) bool {
			got <- c
			return c.Kind != Exit
		})
	}()

	send := func(cmds ...string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for {
			err := Send(path, cmds...)
			if err == nil {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("send: %v", err)
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
	recv := func(want Kind) Command {
		t.Helper()
		select {
		case c := <-got:
			if c.Kind != want {
				t.Fatalf("got %v, want %v", c.Kind, want)
			}
			return c
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %v", want)
		}
		return Command{}
	}

	send("set progress 100", "bogus line", "log hello")
	if c := recv(SetProgress); c.Int != 100 {
		t.Errorf("progress = %d", c.Int)
	}
	if c := recv(Log); c.Text != "hello" {
		t.Errorf("log = %q", c.Text)
	}

	send("exit")
	recv(Exit)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("reader did not stop after exit")
	}
}

func TestReaderStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".splash")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewReader(path).Run(ctx, func(Command) bool { return true })
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reader ignored cancellation")
	}
}
