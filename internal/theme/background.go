package theme

import (
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// buildBackgrounds converts the pictures into native screen buffers, one
// per mode, with the bg colour filling the margins. Paletted 8bpp screens
// have no native buffers; they are painted directly.
func (t *Theme) buildBackgrounds() {
	scr := t.Screen
	if scr.Format.BitsPerPixel <= 8 || scr.Validate() != nil {
		return
	}
	codec := pixfmt.NewCodec(scr.Format)
	for _, m := range []Mode{ModeVerbose, ModeSilent} {
		pic := t.Picture(m)
		if prev, ok := t.bg[ModeVerbose]; ok && m == ModeSilent && pic == t.Picture(ModeVerbose) {
			t.bg[m] = prev
			continue
		}
		t.bg[m] = renderBackground(codec, scr, t.BgColor.R, t.BgColor.G, t.BgColor.B, pic, t.XMarg, t.YMarg)
	}
}

func renderBackground(codec *pixfmt.Codec, scr pixfmt.Screen, r, g, b uint8, pic *Picture, xm, ym int) []byte {
	buf := make([]byte, scr.Size())
	bpp := codec.BytesPerPixel()
	stride := scr.Stride()
	for y := 0; y < scr.YRes; y++ {
		row := buf[y*stride:]
		for x := 0; x < scr.XRes; x++ {
			p := row[x*bpp:]
			codec.PutPixel(255, r, g, b, p, p, pixfmt.DitherPhase(x, y))
		}
	}
	if pic == nil || pic.Img == nil {
		return buf
	}
	img := pic.Img
	w := min(img.Rect.Dx(), scr.XRes-xm)
	h := min(img.Rect.Dy(), scr.YRes-ym)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		dst := buf[scr.Offset(xm, ym+y):]
		codec.RGBAToFB(dst, src, xm, ym+y, w, true, 255)
	}
	return buf
}
