package theme

import (
	"image/color"

	"github.com/rook-computer/splashd/internal/render/layout"
)

// Corner indices into BoxShape.C.
const (
	UpperLeft = iota
	UpperRight
	LowerLeft
	LowerRight
)

// BoxClass tells the renderer how colour varies inside a box.
type BoxClass uint8

const (
	// BoxGradient varies along both axes.
	BoxGradient BoxClass = iota
	BoxSolid
	// BoxVGrad varies only from top to bottom.
	BoxVGrad
	// BoxHGrad varies only from left to right.
	BoxHGrad
)

// BoxShape is the geometry and corner colours of a box.
type BoxShape struct {
	Rect layout.Rect
	C    [4]color.NRGBA
}

// Class classifies the colour layout of s.
func (s BoxShape) Class() BoxClass {
	c := s.C
	switch {
	case c[0] == c[1] && c[0] == c[2] && c[0] == c[3]:
		return BoxSolid
	case c[UpperLeft] == c[UpperRight] && c[LowerLeft] == c[LowerRight]:
		return BoxVGrad
	case c[UpperLeft] == c[LowerLeft] && c[UpperRight] == c[LowerRight]:
		return BoxHGrad
	}
	return BoxGradient
}

func lerpColor(a, b color.NRGBA, progress int) color.NRGBA {
	l := func(x, y uint8) uint8 {
		return uint8(int(x) + (int(y)-int(x))*progress/MaxProgress)
	}
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}

// InterpolateShape moves a towards b by progress/MaxProgress.
func InterpolateShape(a, b BoxShape, progress int) BoxShape {
	out := BoxShape{Rect: layout.Interpolate(a.Rect, b.Rect, progress, MaxProgress)}
	for i := range out.C {
		out.C[i] = lerpColor(a.C[i], b.C[i], progress)
	}
	return out
}

// Box is a solid or four-corner gradient rectangle, optionally
// interpolated towards a target shape by progress.
type Box struct {
	Base
	Shape BoxShape
	// Target, when set, is the shape reached at MaxProgress.
	Target *BoxShape
	// NoOver boxes composite against the background picture only.
	NoOver bool

	cur         BoxShape
	curProgress int
	curValid    bool
	prev        BoxShape
}

// Current returns the shape at progress. The result is cached until the
// progress value changes.
func (b *Box) Current(progress int) BoxShape {
	if b.Target == nil {
		return b.Shape
	}
	if !b.curValid || b.curProgress != progress {
		b.cur = InterpolateShape(b.Shape, *b.Target, progress)
		b.curProgress = progress
		b.curValid = true
	}
	return b.cur
}

// Painted returns the shape computed by the last Prerender.
func (b *Box) Painted() BoxShape { return b.prev }

func (b *Box) dependsOnProgress() bool { return b.Target != nil }

// Prerender computes the current shape. When only edges of a uniformly
// coloured box moved, just the strips between old and new edges are
// pushed instead of the whole box.
func (b *Box) Prerender(f *Frame, dirty *layout.DirtyList) {
	shape := b.Current(f.Progress)
	shape.Rect = layout.Normalize(shape.Rect)

	if b.shown && b.Drawable() && b.Opacity == b.drawnOpacity {
		if strips, ok := boxDelta(b.prev, shape); ok {
			for _, s := range strips {
				dirty.Push(s)
			}
			b.prev = shape
			b.commit(shape.Rect, true)
			return
		}
	}
	b.prev = shape
	b.settle(shape.Rect, dirty)
}

// boxDelta returns the regions that differ between two shapes of a box
// whose pixel colours do not depend on the moved edges. ok is false when
// the whole union must be repainted.
func boxDelta(old, cur BoxShape) (strips []layout.Rect, ok bool) {
	if old == cur {
		return nil, true
	}
	if old.C != cur.C {
		return nil, false
	}
	o, n := old.Rect, cur.Rect
	switch cur.Class() {
	case BoxSolid:
	case BoxVGrad:
		// colours run top to bottom; moving a horizontal edge recolours every row
		if o.Y1 != n.Y1 || o.Y2 != n.Y2 {
			return nil, false
		}
	case BoxHGrad:
		if o.X1 != n.X1 || o.X2 != n.X2 {
			return nil, false
		}
	default:
		return nil, false
	}
	u := layout.Bound(o, n)
	if o.X1 != n.X1 {
		strips = append(strips, layout.R(min(o.X1, n.X1), u.Y1, max(o.X1, n.X1)-1, u.Y2))
	}
	if o.X2 != n.X2 {
		strips = append(strips, layout.R(min(o.X2, n.X2)+1, u.Y1, max(o.X2, n.X2), u.Y2))
	}
	if o.Y1 != n.Y1 {
		strips = append(strips, layout.R(u.X1, min(o.Y1, n.Y1), u.X2, max(o.Y1, n.Y1)-1))
	}
	if o.Y2 != n.Y2 {
		strips = append(strips, layout.R(u.X1, min(o.Y2, n.Y2)+1, u.X2, max(o.Y2, n.Y2)))
	}
	return strips, true
}
