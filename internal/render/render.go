// Package render composites a theme onto a native pixel buffer and pushes
// the changed regions to an output surface.
package render

import (
	"errors"
	"fmt"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/theme"
)

// ErrUnsupportedDepth is returned by the incremental path on 8bpp screens,
// which are painted directly through PaintPaletted instead.
var ErrUnsupportedDepth = errors.New("incremental rendering needs at least 15bpp")

// Logger matches the component logger used across splashd.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Surface is where composited pixels end up: the framebuffer, a simulator
// window or memory.
type Surface interface {
	Screen() pixfmt.Screen
	// Flush copies the rects of buf, laid out like the screen, to the
	// display.
	Flush(buf []byte, rects []layout.Rect) error
	// SetColormap loads a hardware colour table. Surfaces without one
	// ignore it.
	SetColormap(cm pixfmt.Colormap) error
	Close() error
}

// Renderer owns the composited buffer for one screen.
type Renderer struct {
	scr    pixfmt.Screen
	codec  *pixfmt.Codec
	buf    []byte
	out    Surface
	Logger Logger
	Debug  bool
}

// New prepares a renderer for out's screen.
func New(out Surface) (*Renderer, error) {
	scr := out.Screen()
	if err := scr.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r := &Renderer{scr: scr, codec: pixfmt.NewCodec(scr.Format), out: out}
	r.buf = make([]byte, scr.Size())
	return r, nil
}

// Screen returns the geometry the renderer targets.
func (r *Renderer) Screen() pixfmt.Screen { return r.scr }

// Buffer returns the composited buffer. It stays valid for the renderer's
// lifetime.
func (r *Renderer) Buffer() []byte { return r.buf }

// Surface returns the output surface.
func (r *Renderer) Surface() Surface { return r.out }

// Render brings the buffer up to date with f and flushes the changed
// regions. Invalidated objects are recomputed first, collecting the dirty
// regions; each region is then rebuilt from the background and every
// object overlapping it, in paint order. With full set every object is
// recomputed and the whole screen repainted. The flushed regions are
// returned.
func (r *Renderer) Render(t *theme.Theme, f *theme.Frame, full bool) ([]layout.Rect, error) {
	rects, err := r.Compose(t, f, full)
	if err != nil {
		return nil, err
	}
	if len(rects) == 0 {
		return nil, nil
	}
	if err := r.out.Flush(r.buf, rects); err != nil {
		return rects, fmt.Errorf("flush: %w", err)
	}
	return rects, nil
}

// Compose updates the buffer like Render without flushing it.
func (r *Renderer) Compose(t *theme.Theme, f *theme.Frame, full bool) ([]layout.Rect, error) {
	if r.scr.Format.BitsPerPixel <= 8 {
		return nil, ErrUnsupportedDepth
	}
	bg := t.Background(f.Mode)
	if len(bg) != len(r.buf) {
		return nil, fmt.Errorf("theme background does not match a %dx%d %v screen", r.scr.XRes, r.scr.YRes, r.scr.Format)
	}

	t.Dirty.Reset()
	if full {
		t.ForgetAll()
	}
	for _, obj := range t.Objects {
		b := theme.BaseOf(obj)
		if b.ShownIn(f.Mode) && b.Invalid {
			obj.Prerender(f, &t.Dirty)
		}
	}
	if full {
		t.Dirty.Reset()
		t.Dirty.Push(r.scr.Bounds())
	}
	t.Dirty.Normalize()

	screen := r.scr.Bounds()
	rects := make([]layout.Rect, 0, t.Dirty.Len())
	for _, d := range t.Dirty.Rects() {
		d = layout.Intersect(d, screen)
		if d.Empty() {
			continue
		}
		r.paintRect(t, f.Mode, bg, d)
		rects = append(rects, d)
	}
	if r.Debug && r.Logger != nil {
		r.Logger.Infof("render", "pass full=%v progress=%d rects=%d", full, f.Progress, len(rects))
	}
	return rects, nil
}

// paintRect rebuilds one dirty region.
func (r *Renderer) paintRect(t *theme.Theme, m theme.Mode, bg []byte, rect layout.Rect) {
	r.copyRect(r.buf, bg, rect)
	for _, obj := range t.Objects {
		b := theme.BaseOf(obj)
		if !b.ShownIn(m) || !b.Shown() {
			continue
		}
		clip := layout.Intersect(b.Bound, rect)
		if clip.Empty() {
			continue
		}
		switch o := obj.(type) {
		case *theme.Box:
			if o.NoOver {
				r.copyRect(r.buf, bg, clip)
			}
			r.paintBox(o.Painted(), clip, o.Opacity)
		case *theme.Icon:
			r.paintImage(o.Image.Img, o.Source(), o.Bound, clip, o.Opacity)
		case *theme.Anim:
			fr := o.Frame()
			r.paintImage(fr, layout.FromImage(fr.Rect), o.Bound, clip, o.Opacity)
		case *theme.Text:
			r.paintMask(o.Mask(), o.Color, o.Bound, clip, o.Opacity)
		}
	}
}

// copyRect copies rect from src to dst, both laid out like the screen.
func (r *Renderer) copyRect(dst, src []byte, rect layout.Rect) {
	n := rect.Dx() * r.scr.Format.BytesPerPixel()
	for y := rect.Y1; y <= rect.Y2; y++ {
		off := r.scr.Offset(rect.X1, y)
		copy(dst[off:off+n], src[off:off+n])
	}
}
