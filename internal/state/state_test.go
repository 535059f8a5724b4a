package state

import (
	"testing"

	"github.com/rook-computer/splashd/internal/theme"
)

func TestSetProgressClamps(t *testing.T) {
	store := NewStore(0)
	tests := []struct {
		in, want int
		changed  bool
	}{
		{100, 100, true},
		{100, 100, false},
		{-5, 0, true},
		{1 << 20, theme.MaxProgress, true},
	}
	for _, tt := range tests {
		if got := store.SetProgress(tt.in); got != tt.changed {
			t.Errorf("SetProgress(%d) changed = %v, want %v", tt.in, got, tt.changed)
		}
		if p := store.Snapshot().Progress; p != tt.want {
			t.Errorf("after SetProgress(%d) progress = %d, want %d", tt.in, p, tt.want)
		}
	}
}

func TestAppendLogKeepsNewest(t *testing.T) {
	store := NewStore(3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		store.AppendLog(line)
	}
	got := store.Snapshot().Log
	want := []string{"c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	store := NewStore(0)
	store.UpdateService("sshd", theme.SvcStarted)
	store.AppendLog("one")
	snap := store.Snapshot()
	snap.Services["sshd"] = theme.SvcStopped
	snap.Log[0] = "changed"

	again := store.Snapshot()
	if again.Services["sshd"] != theme.SvcStarted {
		t.Errorf("snapshot shares the service table")
	}
	if again.Log[0] != "one" {
		t.Errorf("snapshot shares the log")
	}
}

func TestUpdateService(t *testing.T) {
	store := NewStore(0)
	if !store.UpdateService("net", theme.SvcStart) {
		t.Errorf("first update reported no change")
	}
	if store.UpdateService("net", theme.SvcStart) {
		t.Errorf("repeated update reported a change")
	}
	if !store.UpdateService("net", theme.SvcStarted) {
		t.Errorf("state change not reported")
	}
}

func TestToggles(t *testing.T) {
	store := NewStore(0)
	if m := store.ToggleMode(); m != theme.ModeSilent {
		t.Errorf("first toggle = %v, want silent", m)
	}
	if m := store.ToggleMode(); m != theme.ModeVerbose {
		t.Errorf("second toggle = %v, want verbose", m)
	}
	if !store.ToggleTextbox() || store.ToggleTextbox() {
		t.Errorf("textbox toggle did not alternate")
	}
}
