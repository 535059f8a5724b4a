// Package pixfmt converts 8-bit RGBA colour into the native pixel layout of a
// framebuffer and composites it with alpha and ordered dithering.
package pixfmt

import (
	"errors"
	"fmt"

	"github.com/rook-computer/splashd/internal/render/layout"
)

// Visual is the framebuffer colour visual.
type Visual int

const (
	TrueColor Visual = iota
	DirectColor
	PseudoColor
)

func (v Visual) String() string {
	switch v {
	case TrueColor:
		return "truecolor"
	case DirectColor:
		return "directcolor"
	case PseudoColor:
		return "pseudocolor"
	}
	return fmt.Sprintf("visual(%d)", int(v))
}

// Channel is the bit placement of one colour component inside a pixel.
type Channel struct {
	Length uint
	Offset uint
}

// Format describes a framebuffer pixel layout as reported by the kernel.
type Format struct {
	BitsPerPixel int
	Red          Channel
	Green        Channel
	Blue         Channel
	BigEndian    bool
	Visual       Visual
}

// Common layouts.
var (
	RGB565   = Format{BitsPerPixel: 16, Red: Channel{5, 11}, Green: Channel{6, 5}, Blue: Channel{5, 0}}
	RGB555   = Format{BitsPerPixel: 16, Red: Channel{5, 10}, Green: Channel{5, 5}, Blue: Channel{5, 0}}
	RGB888   = Format{BitsPerPixel: 24, Red: Channel{8, 16}, Green: Channel{8, 8}, Blue: Channel{8, 0}}
	XRGB8888 = Format{BitsPerPixel: 32, Red: Channel{8, 16}, Green: Channel{8, 8}, Blue: Channel{8, 0}}
	XBGR8888 = Format{BitsPerPixel: 32, Red: Channel{8, 0}, Green: Channel{8, 8}, Blue: Channel{8, 16}}
	Indexed8 = Format{BitsPerPixel: 8, Red: Channel{8, 0}, Green: Channel{8, 0}, Blue: Channel{8, 0}, Visual: PseudoColor}
)

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int { return (f.BitsPerPixel + 7) / 8 }

// Optimized reports whether the layout allows byte-addressed compositing:
// at least 24bpp with three 8-bit channels on byte boundaries.
func (f Format) Optimized() bool {
	if f.BitsPerPixel < 24 {
		return false
	}
	for _, c := range []Channel{f.Red, f.Green, f.Blue} {
		if c.Length != 8 || c.Offset%8 != 0 || int(c.Offset)/8 >= f.BytesPerPixel() {
			return false
		}
	}
	return true
}

// Validate rejects layouts the codec cannot address.
func (f Format) Validate() error {
	switch f.BitsPerPixel {
	case 8, 15, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported depth %d bpp", f.BitsPerPixel)
	}
	if f.BitsPerPixel == 8 {
		return nil
	}
	for name, c := range map[string]Channel{"red": f.Red, "green": f.Green, "blue": f.Blue} {
		if c.Length == 0 || c.Length > 8 {
			return fmt.Errorf("unsupported %s channel length %d", name, c.Length)
		}
		if int(c.Offset+c.Length) > f.BytesPerPixel()*8 {
			return fmt.Errorf("%s channel (offset %d, length %d) exceeds pixel size", name, c.Offset, c.Length)
		}
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dbpp r%d/%d g%d/%d b%d/%d %s", f.BitsPerPixel,
		f.Red.Length, f.Red.Offset, f.Green.Length, f.Green.Offset, f.Blue.Length, f.Blue.Offset, f.Visual)
}

// ErrEmptyScreen is returned for a zero-sized screen.
var ErrEmptyScreen = errors.New("screen has no pixels")

// Screen is the render context geometry: resolution and pixel layout of
// the display surface. Buffers for a Screen are linear with no row padding.
type Screen struct {
	XRes   int
	YRes   int
	Format Format
}

// Stride returns the byte length of one row.
func (s Screen) Stride() int { return s.XRes * s.Format.BytesPerPixel() }

// Size returns the byte length of a full-screen buffer.
func (s Screen) Size() int { return s.Stride() * s.YRes }

// Bounds returns the rect covering the whole screen.
func (s Screen) Bounds() layout.Rect { return layout.R(0, 0, s.XRes-1, s.YRes-1) }

// Offset returns the byte offset of pixel (x, y).
func (s Screen) Offset(x, y int) int {
	return y*s.Stride() + x*s.Format.BytesPerPixel()
}

// Validate checks the resolution and pixel layout.
func (s Screen) Validate() error {
	if s.XRes <= 0 || s.YRes <= 0 {
		return ErrEmptyScreen
	}
	return s.Format.Validate()
}
