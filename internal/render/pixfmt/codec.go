package pixfmt

// bayer is the 2x2 ordered dither matrix indexed by [y&1][x&1].
var bayer = [2][2]uint8{{0, 2}, {3, 1}}

// DitherPhase returns the dither term for pixel (x, y), in 0..3.
func DitherPhase(x, y int) uint8 { return bayer[y&1][x&1] }

type channelCodec struct {
	offset uint
	drop   uint // 8 - length
	mask   uint32
	// dither offsets for phases 0..3, each < 1<<drop
	dither [4]uint8
}

func newChannelCodec(c Channel) channelCodec {
	cc := channelCodec{offset: c.Offset, mask: (1 << c.Length) - 1}
	if c.Length < 8 {
		cc.drop = 8 - c.Length
	}
	step := uint(1) << cc.drop
	for add := range cc.dither {
		if cc.drop == 0 {
			continue
		}
		cc.dither[add] = uint8((uint(add)*step)>>2 + step>>3)
	}
	return cc
}

// expand reads the channel from a packed pixel and scales it to 8 bits.
func (c channelCodec) expand(v uint32) uint8 {
	return uint8(((v >> c.offset) & c.mask) << c.drop)
}

func (c channelCodec) pack(v uint8) uint32 {
	return uint32(v>>c.drop) << c.offset
}

// Codec composites 8-bit colour into one Format. Build it once per screen.
type Codec struct {
	format Format
	bpp    int
	opt    bool
	dither bool
	// byte offsets of r, g, b inside a pixel (optimized path)
	ro, gO, bo int
	r, g, b    channelCodec
}

// NewCodec prepares the conversion tables for f.
func NewCodec(f Format) *Codec {
	c := &Codec{
		format: f,
		bpp:    f.BytesPerPixel(),
		opt:    f.Optimized(),
		dither: f.BitsPerPixel < 24,
		r:      newChannelCodec(f.Red),
		g:      newChannelCodec(f.Green),
		b:      newChannelCodec(f.Blue),
	}
	if c.opt {
		c.ro = c.byteIndex(f.Red.Offset)
		c.gO = c.byteIndex(f.Green.Offset)
		c.bo = c.byteIndex(f.Blue.Offset)
	}
	return c
}

func (c *Codec) byteIndex(offset uint) int {
	if c.format.BigEndian {
		return c.bpp - 1 - int(offset>>3)
	}
	return int(offset >> 3)
}

// Format returns the layout the codec writes.
func (c *Codec) Format() Format { return c.format }

// BytesPerPixel returns the pixel size in bytes.
func (c *Codec) BytesPerPixel() int { return c.bpp }

// blend mixes colour v over background s with alpha a, rounding to nearest.
func blend(s, v, a uint8) uint8 {
	return uint8((uint32(s)*uint32(255-a) + uint32(v)*uint32(a) + 127) / 255)
}

func clamp8(v int) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Read returns the packed pixel value stored at p.
func (c *Codec) Read(p []byte) uint32 {
	switch c.bpp {
	case 1:
		return uint32(p[0])
	case 2:
		if c.format.BigEndian {
			return uint32(p[0])<<8 | uint32(p[1])
		}
		return uint32(p[0]) | uint32(p[1])<<8
	case 3:
		if c.format.BigEndian {
			return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		}
		return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
	default:
		if c.format.BigEndian {
			return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
		}
		return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
	}
}

// Write stores the packed pixel value v at p.
func (c *Codec) Write(p []byte, v uint32) {
	switch c.bpp {
	case 1:
		p[0] = uint8(v)
	case 2:
		if c.format.BigEndian {
			p[0], p[1] = uint8(v>>8), uint8(v)
		} else {
			p[0], p[1] = uint8(v), uint8(v>>8)
		}
	case 3:
		// 24bpp is split into a 16-bit half and a single byte.
		if c.format.BigEndian {
			p[0], p[1], p[2] = uint8(v>>16), uint8(v>>8), uint8(v)
		} else {
			p[0], p[1], p[2] = uint8(v), uint8(v>>8), uint8(v>>16)
		}
	default:
		if c.format.BigEndian {
			p[0], p[1], p[2], p[3] = uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)
		} else {
			p[0], p[1], p[2], p[3] = uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24)
		}
	}
}

// Pack converts an 8-bit colour to the packed pixel value, without dithering.
func (c *Codec) Pack(r, g, b uint8) uint32 {
	return c.r.pack(r) | c.g.pack(g) | c.b.pack(b)
}

// Unpack reads the pixel at p and scales its channels to 8 bits.
func (c *Codec) Unpack(p []byte) (r, g, b uint8) {
	if c.opt {
		return p[c.ro], p[c.gO], p[c.bo]
	}
	v := c.Read(p)
	return c.r.expand(v), c.g.expand(v), c.b.expand(v)
}

// PutPixel writes colour (r, g, b) with alpha a into dst, blending against
// the pixel at src. a == 0 copies src unchanged; a == 255 overwrites.
// add is the dither phase from DitherPhase, used below 24bpp.
func (c *Codec) PutPixel(a, r, g, b uint8, src, dst []byte, add uint8) {
	if a == 0 {
		copy(dst[:c.bpp], src[:c.bpp])
		return
	}
	if c.opt {
		if a == 255 {
			if &dst[0] != &src[0] {
				copy(dst[:c.bpp], src[:c.bpp])
			}
			dst[c.ro], dst[c.gO], dst[c.bo] = r, g, b
			return
		}
		sr, sg, sb := src[c.ro], src[c.gO], src[c.bo]
		if &dst[0] != &src[0] {
			copy(dst[:c.bpp], src[:c.bpp])
		}
		dst[c.ro] = blend(sr, r, a)
		dst[c.gO] = blend(sg, g, a)
		dst[c.bo] = blend(sb, b, a)
		return
	}

	if a != 255 {
		v := c.Read(src)
		r = blend(c.r.expand(v), r, a)
		g = blend(c.g.expand(v), g, a)
		b = blend(c.b.expand(v), b, a)
	}
	if c.dither {
		add &= 3
		r = clamp8(int(r) + int(c.r.dither[add]))
		g = clamp8(int(g) + int(c.g.dither[add]))
		b = clamp8(int(b) + int(c.b.dither[add]))
	}
	c.Write(dst, c.r.pack(r)|c.g.pack(g)|c.b.pack(b))
}

// RGBAToFB composites one scanline of w source pixels onto dst, starting at
// screen position (x, y) for the dither phase. src holds RGBA quadruplets
// when alpha is set, RGB triplets otherwise. opacity scales source alpha.
// dst is read as the background and written in place.
func (c *Codec) RGBAToFB(dst, src []byte, x, y, w int, alpha bool, opacity uint8) {
	step := 3
	if alpha {
		step = 4
	}
	for i := 0; i < w; i++ {
		s := src[i*step:]
		a := uint8(255)
		if alpha {
			a = s[3]
		}
		if opacity != 255 {
			a = uint8((uint32(a)*uint32(opacity) + 127) / 255)
		}
		p := dst[i*c.bpp:]
		c.PutPixel(a, s[0], s[1], s[2], p, p, DitherPhase(x+i, y))
	}
}
