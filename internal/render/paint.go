package render

import (
	"image"
	"image/color"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/theme"
)

func lerp8(a, b uint8, num, den int) uint8 {
	return uint8((int(a)*(den-num) + int(b)*num) / den)
}

func lerpNRGBA(a, b color.NRGBA, num, den int) color.NRGBA {
	return color.NRGBA{
		R: lerp8(a.R, b.R, num, den),
		G: lerp8(a.G, b.G, num, den),
		B: lerp8(a.B, b.B, num, den),
		A: lerp8(a.A, b.A, num, den),
	}
}

func scaleAlpha(a, opacity uint8) uint8 {
	if opacity == 255 {
		return a
	}
	return uint8((uint32(a)*uint32(opacity) + 127) / 255)
}

// paintBox fills the clip part of a box, interpolating the corner colours
// bilinearly: down the left and right edges per row, then across the row.
func (r *Renderer) paintBox(s theme.BoxShape, clip layout.Rect, opacity uint8) {
	bpp := r.codec.BytesPerPixel()
	rect := s.Rect
	dy := max(1, rect.Y2-rect.Y1)
	dx := max(1, rect.X2-rect.X1)
	class := s.Class()
	for y := clip.Y1; y <= clip.Y2; y++ {
		left := lerpNRGBA(s.C[theme.UpperLeft], s.C[theme.LowerLeft], y-rect.Y1, dy)
		right := lerpNRGBA(s.C[theme.UpperRight], s.C[theme.LowerRight], y-rect.Y1, dy)
		row := r.buf[r.scr.Offset(clip.X1, y):]
		c := left
		for x := clip.X1; x <= clip.X2; x++ {
			if class == theme.BoxHGrad || class == theme.BoxGradient {
				c = lerpNRGBA(left, right, x-rect.X1, dx)
			}
			p := row[(x-clip.X1)*bpp:]
			r.codec.PutPixel(scaleAlpha(c.A, opacity), c.R, c.G, c.B, p, p, pixfmt.DitherPhase(x, y))
		}
	}
}

// paintImage composites the clip part of an image placed so that src's
// top left lands on bound's top left.
func (r *Renderer) paintImage(img *image.NRGBA, src, bound, clip layout.Rect, opacity uint8) {
	if img == nil {
		return
	}
	w := clip.Dx()
	sx := src.X1 + clip.X1 - bound.X1
	for y := clip.Y1; y <= clip.Y2; y++ {
		sy := src.Y1 + y - bound.Y1
		row := img.Pix[img.PixOffset(sx, sy):]
		r.codec.RGBAToFB(r.buf[r.scr.Offset(clip.X1, y):], row, clip.X1, y, w, true, opacity)
	}
}

// paintMask draws colour c through a coverage mask whose origin is bound's
// top left.
func (r *Renderer) paintMask(mask *image.Alpha, c color.NRGBA, bound, clip layout.Rect, opacity uint8) {
	if mask == nil {
		return
	}
	bpp := r.codec.BytesPerPixel()
	a := scaleAlpha(c.A, opacity)
	for y := clip.Y1; y <= clip.Y2; y++ {
		mrow := mask.Pix[mask.PixOffset(clip.X1-bound.X1, y-bound.Y1):]
		row := r.buf[r.scr.Offset(clip.X1, y):]
		for i := 0; i < clip.Dx(); i++ {
			cov := mrow[i]
			if cov == 0 {
				continue
			}
			p := row[i*bpp:]
			r.codec.PutPixel(scaleAlpha(cov, a), c.R, c.G, c.B, p, p, pixfmt.DitherPhase(clip.X1+i, y))
		}
	}
}
