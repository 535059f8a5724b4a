package state

import (
	"maps"
	"sync"

	"github.com/rook-computer/splashd/internal/theme"
)

// DefaultLogLines bounds the message log kept for the textbox.
const DefaultLogLines = 64

// Effects selects the transitions played around silent mode.
type Effects struct {
	FadeIn  bool
	FadeOut bool
}

type State struct {
	Progress int
	Mode     theme.Mode
	Message  string
	Theme    string
	Textbox  bool
	Effects  Effects
	// SilentTTY is the virtual console the silent splash is shown on.
	SilentTTY int
	Services  map[string]theme.SvcState
	// Log holds the newest message-log lines, oldest first.
	Log []string
}

// Store holds the controller state shared by the command reader, the key
// monitor and the render path.
type Store struct {
	mu       sync.RWMutex
	state    State
	logLimit int
}

func NewStore(logLimit int) *Store {
	if logLimit <= 0 {
		logLimit = DefaultLogLines
	}
	return &Store{
		state: State{
			Mode:      theme.ModeVerbose,
			SilentTTY: 8,
			Services:  make(map[string]theme.SvcState),
		},
		logLimit: logLimit,
	}
}

// Snapshot returns a copy that does not share the service table or the log
// with the store.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Services = maps.Clone(store.state.Services)
	s.Log = append([]string(nil), store.state.Log...)
	return s
}

// SetProgress clamps p to 0..theme.MaxProgress and reports whether the
// stored value changed.
func (store *Store) SetProgress(p int) bool {
	p = max(0, min(p, theme.MaxProgress))
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Progress == p {
		return false
	}
	store.state.Progress = p
	return true
}

func (store *Store) SetMode(m theme.Mode) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Mode == m {
		return false
	}
	store.state.Mode = m
	return true
}

// ToggleMode flips between silent and verbose and returns the new mode.
func (store *Store) ToggleMode() theme.Mode {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Mode == theme.ModeSilent {
		store.state.Mode = theme.ModeVerbose
	} else {
		store.state.Mode = theme.ModeSilent
	}
	return store.state.Mode
}

func (store *Store) SetMessage(msg string) {
	store.mu.Lock()
	store.state.Message = msg
	store.mu.Unlock()
}

func (store *Store) SetTheme(name string) {
	store.mu.Lock()
	store.state.Theme = name
	store.mu.Unlock()
}

func (store *Store) SetEffects(e Effects) {
	store.mu.Lock()
	store.state.Effects = e
	store.mu.Unlock()
}

func (store *Store) SetTextbox(on bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Textbox == on {
		return false
	}
	store.state.Textbox = on
	return true
}

// ToggleTextbox flips the textbox and returns the new setting.
func (store *Store) ToggleTextbox() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Textbox = !store.state.Textbox
	return store.state.Textbox
}

func (store *Store) SetSilentTTY(n int) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.SilentTTY == n {
		return false
	}
	store.state.SilentTTY = n
	return true
}

// UpdateService records the state of a service and reports whether it
// differs from the previous one.
func (store *Store) UpdateService(name string, s theme.SvcState) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if prev, ok := store.state.Services[name]; ok && prev == s {
		return false
	}
	store.state.Services[name] = s
	return true
}

// AppendLog adds a line to the message log, dropping the oldest line once
// the limit is reached.
func (store *Store) AppendLog(line string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	log := append(store.state.Log, line)
	if n := len(log) - store.logLimit; n > 0 {
		log = append(log[:0:0], log[n:]...)
	}
	store.state.Log = log
}
