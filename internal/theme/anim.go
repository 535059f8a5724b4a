package theme

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
)

// AnimMode selects how an animation advances.
type AnimMode int

const (
	AnimOnce AnimMode = iota
	AnimLoop
	// AnimProportional shows the frame matching the boot progress.
	AnimProportional
)

// ParseAnimMode parses once, loop or proportional.
func ParseAnimMode(s string) (AnimMode, bool) {
	switch strings.ToLower(s) {
	case "once":
		return AnimOnce, true
	case "loop":
		return AnimLoop, true
	case "proportional":
		return AnimProportional, true
	}
	return 0, false
}

func (m AnimMode) String() string {
	switch m {
	case AnimOnce:
		return "once"
	case AnimLoop:
		return "loop"
	case AnimProportional:
		return "proportional"
	}
	return fmt.Sprintf("animmode(%d)", int(m))
}

// MinFrameDelay bounds how fast timed animations can run.
const MinFrameDelay = 20 * time.Millisecond

// Animation is a decoded frame sequence. Every frame is a full canvas of
// the same size.
type Animation struct {
	Path   string
	Frames []*image.NRGBA
	Delays []time.Duration
}

// Anim plays a decoded frame sequence at a position, bound to a service
// like Icon. Proportional animations pick the frame from the progress.
type Anim struct {
	Base
	Binding
	Anim *Animation
	X, Y int
	Mode AnimMode

	frame int
	next  time.Time
	done  bool
}

func (a *Anim) dependsOnProgress() bool { return a.Mode == AnimProportional }

// Frame returns the frame image selected by the last Prerender.
func (a *Anim) Frame() *image.NRGBA { return a.Anim.Frames[a.frame] }

// FrameIndex returns the current frame number.
func (a *Anim) FrameIndex() int { return a.frame }

func (a *Anim) delay(i int) time.Duration {
	d := MinFrameDelay
	if i < len(a.Anim.Delays) && a.Anim.Delays[i] > d {
		d = a.Anim.Delays[i]
	}
	return d
}

// Advance moves a timed animation to the frame due at now and reports
// whether the frame changed.
func (a *Anim) Advance(now time.Time) bool {
	n := len(a.Anim.Frames)
	if a.Mode == AnimProportional || a.done || n < 2 {
		return false
	}
	if a.next.IsZero() {
		a.next = now.Add(a.delay(a.frame))
		return false
	}
	if now.Before(a.next) {
		return false
	}
	a.frame++
	if a.frame >= n {
		if a.Mode == AnimOnce {
			a.frame = n - 1
			a.done = true
			return false
		}
		a.frame = 0
	}
	a.next = now.Add(a.delay(a.frame))
	a.Invalid = true
	return true
}

// Deadline returns when the next frame is due, if any.
func (a *Anim) Deadline() (time.Time, bool) {
	if a.Mode == AnimProportional || a.done || a.next.IsZero() {
		return time.Time{}, false
	}
	return a.next, true
}

// Rewind restarts a timed animation from its first frame.
func (a *Anim) Rewind() {
	a.frame = 0
	a.next = time.Time{}
	a.done = false
	a.Invalid = true
}

// Prerender selects the frame and pushes the animation's area when it
// changed.
func (a *Anim) Prerender(f *Frame, dirty *layout.DirtyList) {
	if a.Mode == AnimProportional {
		n := len(a.Anim.Frames)
		a.frame = f.Progress * (n - 1) / MaxProgress
	}
	b := a.Anim.Frames[0].Bounds()
	a.settle(layout.R(a.X, a.Y, a.X+b.Dx()-1, a.Y+b.Dy()-1), dirty)
}
