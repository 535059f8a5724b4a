package layout

import "image"

// Rect is an axis-aligned rectangle with inclusive corners: it covers the
// pixels X1..X2 and Y1..Y2. A rect with X2 < X1 or Y2 < Y1 is empty.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// R is shorthand for Rect{x1, y1, x2, y2}.
func R(x1, y1, x2, y2 int) Rect { return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2} }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.X2 < r.X1 || r.Y2 < r.Y1 }

// Dx returns the width in pixels.
func (r Rect) Dx() int {
	if r.X2 < r.X1 {
		return 0
	}
	return r.X2 - r.X1 + 1
}

// Dy returns the height in pixels.
func (r Rect) Dy() int {
	if r.Y2 < r.Y1 {
		return 0
	}
	return r.Y2 - r.Y1 + 1
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{r.X1 + dx, r.Y1 + dy, r.X2 + dx, r.Y2 + dy}
}

// Image converts r to a half-open image.Rectangle.
func (r Rect) Image() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(r.X1, r.Y1, r.X2+1, r.Y2+1)
}

// FromImage converts a half-open image.Rectangle to an inclusive Rect.
func FromImage(rect image.Rectangle) Rect {
	return Rect{rect.Min.X, rect.Min.Y, rect.Max.X - 1, rect.Max.Y - 1}
}

// Interpolate moves every edge of a towards b by progress/max.
// progress == 0 yields a and progress == max yields b exactly.
func Interpolate(a, b Rect, progress, max int) Rect {
	if max <= 0 {
		return a
	}
	return Rect{
		X1: lerp(a.X1, b.X1, progress, max),
		Y1: lerp(a.Y1, b.Y1, progress, max),
		X2: lerp(a.X2, b.X2, progress, max),
		Y2: lerp(a.Y2, b.Y2, progress, max),
	}
}

func lerp(a, b, progress, max int) int {
	return a + (b-a)*progress/max
}

// Bound returns the smallest rect containing both a and b.
func Bound(a, b Rect) Rect {
	return Rect{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}

// Intersect returns the overlap of a and b. The result may be empty;
// check with Empty before using it.
func Intersect(a, b Rect) Rect {
	return Rect{
		X1: max(a.X1, b.X1),
		Y1: max(a.Y1, b.Y1),
		X2: min(a.X2, b.X2),
		Y2: min(a.Y2, b.Y2),
	}
}

// Intersects reports whether a and b share at least one pixel.
func Intersects(a, b Rect) bool {
	return !Intersect(a, b).Empty()
}

// Contains reports whether b lies entirely inside a.
func Contains(a, b Rect) bool {
	return b.X1 >= a.X1 && b.Y1 >= a.Y1 && b.X2 <= a.X2 && b.Y2 <= a.Y2
}

// Sanitize clamps every coordinate of r into [0, xres-1] x [0, yres-1].
func Sanitize(r Rect, xres, yres int) Rect {
	return Rect{
		X1: clamp(r.X1, 0, xres-1),
		Y1: clamp(r.Y1, 0, yres-1),
		X2: clamp(r.X2, 0, xres-1),
		Y2: clamp(r.Y2, 0, yres-1),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize ensures X1 <= X2 and Y1 <= Y2.
func Normalize(r Rect) Rect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}
