package render

import (
	"fmt"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/theme"
)

// PaintPaletted shows the 8bpp picture for mode m on a pseudocolour
// screen: the indices are copied straight to the surface and the picture's
// palette is loaded as the colour table. Objects are not drawn at this
// depth.
func PaintPaletted(out Surface, t *theme.Theme, m theme.Mode) error {
	scr := out.Screen()
	if scr.Format.BitsPerPixel != 8 {
		return fmt.Errorf("paletted paint on a %dbpp screen", scr.Format.BitsPerPixel)
	}
	pic := t.Picture(m)
	if pic == nil || pic.Paletted == nil {
		return fmt.Errorf("theme %s has no 8bpp picture", t.Name)
	}
	p := pic.Paletted
	buf := make([]byte, scr.Size())
	w := min(p.Rect.Dx(), scr.XRes-t.XMarg)
	h := min(p.Rect.Dy(), scr.YRes-t.YMarg)
	for y := 0; y < h; y++ {
		src := p.Pix[p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y):]
		copy(buf[scr.Offset(t.XMarg, t.YMarg+y):], src[:w])
	}
	if err := out.SetColormap(pixfmt.PaletteColormap(p.Palette)); err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	return out.Flush(buf, []layout.Rect{scr.Bounds()})
}
