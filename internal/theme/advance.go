package theme

import "time"

// BlendStep is how often opacity blends are stepped.
const BlendStep = 20 * time.Millisecond

// Advance steps blends and timed animations shown in mode m to now,
// invalidating whatever changed. It returns whether anything did and when
// the next step is due; a zero time means nothing is pending.
func (t *Theme) Advance(m Mode, now time.Time) (changed bool, next time.Time) {
	due := func(d time.Time) {
		if next.IsZero() || d.Before(next) {
			next = d
		}
	}
	for _, obj := range t.Objects {
		b := obj.base()
		if b.Blending() {
			if b.StepBlend(now) {
				b.Invalid = true
				changed = true
			}
			if b.Blending() {
				due(now.Add(BlendStep))
			}
		}
		a, ok := obj.(*Anim)
		if !ok || !a.ShownIn(m) || !a.Visible {
			continue
		}
		if a.Advance(now) {
			changed = true
		}
		if d, ok := a.Deadline(); ok {
			due(d)
		}
	}
	return changed, next
}

// ForgetAll drops the painted state of every object so the next pass
// recomputes and repaints all of them.
func (t *Theme) ForgetAll() {
	for _, obj := range t.Objects {
		obj.base().Forget()
	}
}
