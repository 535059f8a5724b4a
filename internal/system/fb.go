package system

import (
	"fmt"

	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// DefaultFramebuffer is the device opened when none is configured.
const DefaultFramebuffer = "/dev/fb0"

// linux/fb.h
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
	fbioPutCmap        = 0x4605

	fbTypePackedPixels = 0

	fbVisualTrueColor   = 2
	fbVisualPseudoColor = 3
	fbVisualDirectColor = 4
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	Nonstd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HsyncLen, VsyncLen       uint32
	Sync, Vmode, Rotate      uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// screenFromInfo turns the kernel's screen description into the render
// geometry.
func screenFromInfo(v *varScreenInfo, f *fixScreenInfo, bigEndian bool) (pixfmt.Screen, error) {
	if f.Type != fbTypePackedPixels {
		return pixfmt.Screen{}, fmt.Errorf("framebuffer type %d is not packed pixels", f.Type)
	}
	format := pixfmt.Format{
		BitsPerPixel: int(v.BitsPerPixel),
		Red:          pixfmt.Channel{Length: uint(v.Red.Length), Offset: uint(v.Red.Offset)},
		Green:        pixfmt.Channel{Length: uint(v.Green.Length), Offset: uint(v.Green.Offset)},
		Blue:         pixfmt.Channel{Length: uint(v.Blue.Length), Offset: uint(v.Blue.Offset)},
		BigEndian:    bigEndian,
	}
	switch f.Visual {
	case fbVisualTrueColor:
		format.Visual = pixfmt.TrueColor
	case fbVisualDirectColor:
		format.Visual = pixfmt.DirectColor
	case fbVisualPseudoColor:
		format.Visual = pixfmt.PseudoColor
	default:
		return pixfmt.Screen{}, fmt.Errorf("unsupported framebuffer visual %d", f.Visual)
	}
	scr := pixfmt.Screen{XRes: int(v.XRes), YRes: int(v.YRes), Format: format}
	if err := scr.Validate(); err != nil {
		return pixfmt.Screen{}, err
	}
	if int(f.LineLength) < scr.Stride() {
		return pixfmt.Screen{}, fmt.Errorf("line length %d shorter than %d pixels", f.LineLength, scr.XRes)
	}
	return scr, nil
}
