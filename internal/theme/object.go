package theme

import (
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
)

// Object is one element of the scene. The concrete types are *Box, *Icon,
// *Text and *Anim; renderers switch on them.
type Object interface {
	base() *Base
	// Prerender recomputes the object's bound for f and records every
	// region whose pixels change in dirty.
	Prerender(f *Frame, dirty *layout.DirtyList)
	dependsOnProgress() bool
}

// BaseOf returns the shared fields of obj.
func BaseOf(obj Object) *Base { return obj.base() }

// Base holds the fields every object variant shares.
type Base struct {
	ID int
	// Bound encloses every pixel the object paints in its current state.
	Bound layout.Rect
	Modes Mode
	// Visible is the target visibility; Opacity follows it, immediately or
	// over the blend timers.
	Visible bool
	Invalid bool
	Opacity uint8

	BlendIn  time.Duration
	BlendOut time.Duration

	blend *blend
	// painted state from the previous pass
	shown        bool
	drawn        layout.Rect
	drawnOpacity uint8
}

func (b *Base) base() *Base { return b }

type blend struct {
	from, to uint8
	dur      time.Duration
	start    time.Time
}

func newBase(modes Mode, visible bool) Base {
	b := Base{Modes: modes, Visible: visible, Invalid: true}
	if visible {
		b.Opacity = 255
	}
	return b
}

// startBlendIn arms a fade from transparent for objects visible at load.
func (b *Base) startBlendIn() {
	if b.Visible && b.BlendIn > 0 {
		b.Opacity = 0
		b.blend = &blend{from: 0, to: 255, dur: b.BlendIn}
	}
}

// ShownIn reports whether the object takes part in mode m.
func (b *Base) ShownIn(m Mode) bool { return b.Modes&m != 0 }

// Drawable reports whether the object paints anything right now.
func (b *Base) Drawable() bool { return b.Opacity > 0 }

// Shown reports whether the last Prerender left the object on screen.
func (b *Base) Shown() bool { return b.shown }

// Blending reports whether an opacity transition is in progress.
func (b *Base) Blending() bool { return b.blend != nil }

// SetVisible changes the target visibility, starting a blend when the
// matching timer is set.
func (b *Base) SetVisible(v bool, now time.Time) {
	b.Visible = v
	dur, to := b.BlendOut, uint8(0)
	if v {
		dur, to = b.BlendIn, 255
	}
	if dur <= 0 {
		b.blend = nil
		b.Opacity = to
		return
	}
	b.blend = &blend{from: b.Opacity, to: to, dur: dur, start: now}
}

// StepBlend advances an in-progress blend to now. It reports whether the
// opacity changed.
func (b *Base) StepBlend(now time.Time) bool {
	bl := b.blend
	if bl == nil {
		return false
	}
	if bl.start.IsZero() {
		bl.start = now
	}
	elapsed := now.Sub(bl.start)
	old := b.Opacity
	if elapsed >= bl.dur {
		b.Opacity = bl.to
		b.blend = nil
	} else {
		span := int(bl.to) - int(bl.from)
		b.Opacity = uint8(int(bl.from) + span*int(elapsed)/int(bl.dur))
	}
	return b.Opacity != old
}

// settle records the new bound and pushes the union of the previously
// painted region and the new one.
func (b *Base) settle(bound layout.Rect, dirty *layout.DirtyList) {
	vis := b.Drawable() && !bound.Empty()
	switch {
	case b.shown && vis:
		dirty.Push(layout.Bound(b.drawn, bound))
	case b.shown:
		dirty.Push(b.drawn)
	case vis:
		dirty.Push(bound)
	}
	b.commit(bound, vis)
}

func (b *Base) commit(bound layout.Rect, vis bool) {
	b.Bound = bound
	b.shown = vis
	b.drawn = bound
	b.drawnOpacity = b.Opacity
	b.Invalid = false
}

// Forget drops the painted state, as after a full repaint of a different
// mode.
func (b *Base) Forget() {
	b.shown = false
	b.Invalid = true
}
