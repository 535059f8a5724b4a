package main

import (
	"image"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rook-computer/splashd/internal/app"
	"github.com/rook-computer/splashd/internal/render"
	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/simulator/script"
)

// window shows the simulated framebuffer and maps keys to the actions the
// daemon takes on a real console.
type window struct {
	out   *render.MemorySurface
	scr   pixfmt.Screen
	codec *pixfmt.Codec

	app  *app.App
	boot *script.Boot
	done <-chan error

	dirty    atomic.Bool
	img      *image.RGBA
	fbImg    *ebiten.Image
	finished bool
	result   error
}

func newWindow(out *render.MemorySurface) *window {
	scr := out.Screen()
	w := &window{
		out:   out,
		scr:   scr,
		codec: pixfmt.NewCodec(scr.Format),
		img:   image.NewRGBA(image.Rect(0, 0, scr.XRes, scr.YRes)),
	}
	out.OnFlush(func([]byte, []layout.Rect) { w.dirty.Store(true) })
	return w
}

func (w *window) Update() error {
	select {
	case err := <-w.done:
		w.finished = true
		w.result = err
		return ebiten.Termination
	default:
	}

	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		err = w.app.ToggleMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		err = w.app.ToggleTextbox()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		err = w.app.RenderFull(true)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		paused := w.boot.TogglePause()
		w.app.Logger.Infof("sim", "boot paused: %v", paused)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		w.app.Exit(nil)
	}
	if err != nil {
		w.app.Logger.Errorf("sim", "key: %v", err)
	}
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.fbImg == nil {
		w.fbImg = ebiten.NewImage(w.scr.XRes, w.scr.YRes)
		w.dirty.Store(true)
	}
	if w.dirty.Swap(false) {
		w.convert(w.out.Pixels())
		w.fbImg.WritePixels(w.img.Pix)
	}
	screen.DrawImage(w.fbImg, nil)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.scr.XRes, w.scr.YRes
}

// convert expands framebuffer pixels into the RGBA image. Indexed pixels
// go through the colormap last set on the surface.
func (w *window) convert(pix []byte) {
	bpp := w.scr.Format.BytesPerPixel()
	dst := w.img.Pix
	if w.scr.Format.Visual == pixfmt.PseudoColor {
		cm, _ := w.out.Colormap()
		for i, v := range pix {
			j := i * 4
			idx := int(v) - cm.Start
			if idx >= 0 && idx < cm.Len() {
				dst[j], dst[j+1], dst[j+2] = uint8(cm.Red[idx]>>8), uint8(cm.Green[idx]>>8), uint8(cm.Blue[idx]>>8)
			} else {
				dst[j], dst[j+1], dst[j+2] = 0, 0, 0
			}
			dst[j+3] = 0xff
		}
		return
	}
	for i, j := 0, 0; i+bpp <= len(pix); i, j = i+bpp, j+4 {
		dst[j], dst[j+1], dst[j+2] = w.codec.Unpack(pix[i:])
		dst[j+3] = 0xff
	}
}
