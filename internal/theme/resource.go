package theme

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
)

// toNRGBA converts any decoded image to a zero-origin NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// scaleTo resizes img to w x h when it differs.
func scaleTo(img *image.NRGBA, w, h int) *image.NRGBA {
	if img.Rect.Dx() == w && img.Rect.Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// resolvePath makes a config-relative path absolute against the theme dir.
func (t *Theme) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(t.Dir, p)
}

// iconImage returns the shared decoded image for path.
func (t *Theme) iconImage(path string) (*IconImage, error) {
	if im, ok := t.images[path]; ok {
		return im, nil
	}
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load icon %s: %w", path, err)
	}
	im := &IconImage{Path: path, Img: toNRGBA(img)}
	t.images[path] = im
	return im, nil
}

// qrImage renders payload as a size x size QR code icon image. Identical
// codes share one image.
func (t *Theme) qrImage(payload string, size int) (*IconImage, error) {
	key := fmt.Sprintf("qrcode:%d:%s", size, payload)
	if im, ok := t.images[key]; ok {
		return im, nil
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	im := &IconImage{Path: key, Img: toNRGBA(code.Image(size))}
	t.images[key] = im
	return im, nil
}

// animation decodes a frame sequence. GIF files keep their per-frame delays
// and disposal; any other image is a single frame.
func (t *Theme) animation(path string) (*Animation, error) {
	if a, ok := t.anims[path]; ok {
		return a, nil
	}
	var a *Animation
	var err error
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		a, err = decodeGIF(path)
	} else {
		var img image.Image
		img, err = gg.LoadImage(path)
		if err == nil {
			a = &Animation{Path: path, Frames: []*image.NRGBA{toNRGBA(img)}, Delays: []time.Duration{0}}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load animation %s: %w", path, err)
	}
	t.anims[path] = a
	return a, nil
}

func decodeGIF(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("no frames")
	}
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	a := &Animation{Path: path}
	for i, fr := range g.Image {
		var saved *image.NRGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewNRGBA(canvas.Rect)
			copy(saved.Pix, canvas.Pix)
		}
		xdraw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, xdraw.Over)

		out := image.NewNRGBA(canvas.Rect)
		copy(out.Pix, canvas.Pix)
		a.Frames = append(a.Frames, out)
		delay := time.Duration(0)
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		a.Delays = append(a.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			xdraw.Draw(canvas, fr.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return a, nil
}

// loadPicture decodes a background picture and fits it to the config
// resolution.
func (t *Theme) loadPicture(path string) (*Picture, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load picture %s: %w", path, err)
	}
	pic := &Picture{Path: path, Img: scaleTo(toNRGBA(img), t.XRes, t.YRes)}
	return pic, nil
}

// loadPaletted decodes an 8bpp picture. Only paletted images qualify.
func (t *Theme) loadPaletted(path string) (*image.Paletted, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load picture %s: %w", path, err)
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("%s: not a paletted image", path)
	}
	return p, nil
}
