package theme

import (
	"image"

	"github.com/rook-computer/splashd/internal/render/layout"
)

// IconImage is a decoded icon file. Icons naming the same file share one.
type IconImage struct {
	Path string
	Img  *image.NRGBA
}

// Bounds returns the image rectangle in inclusive coordinates.
func (im *IconImage) Bounds() layout.Rect { return layout.FromImage(im.Img.Bounds()) }

// Icon places a shared image on screen, optionally showing only a crop
// window that moves with progress.
type Icon struct {
	Base
	Binding
	Image *IconImage
	X, Y  int
	// Crop and CropTo are image-space windows; the visible part moves from
	// Crop to CropTo as progress goes from 0 to MaxProgress.
	Crop   *layout.Rect
	CropTo *layout.Rect

	src layout.Rect
}

func (ic *Icon) dependsOnProgress() bool { return ic.Crop != nil && ic.CropTo != nil }

// Source returns the image-space rectangle painted in the current state.
// Its top left lands on the screen at Bound's top left.
func (ic *Icon) Source() layout.Rect { return ic.src }

func (ic *Icon) window(progress int) layout.Rect {
	full := ic.Image.Bounds()
	switch {
	case ic.Crop == nil:
		return full
	case ic.CropTo == nil:
		return layout.Intersect(full, *ic.Crop)
	}
	w := layout.Interpolate(*ic.Crop, *ic.CropTo, progress, MaxProgress)
	return layout.Intersect(full, layout.Normalize(w))
}

// Prerender resolves the crop window for the current progress.
func (ic *Icon) Prerender(f *Frame, dirty *layout.DirtyList) {
	ic.src = ic.window(f.Progress)
	bound := ic.src.Translate(ic.X, ic.Y)
	if ic.src.Empty() {
		bound = layout.Rect{X1: 0, Y1: 0, X2: -1, Y2: -1}
	}
	ic.settle(bound, dirty)
}
