package render

import (
	"image/color"
	"sync"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// MemorySurface keeps flushed pixels in memory. Tests and the simulator
// use it.
type MemorySurface struct {
	mu       sync.Mutex
	scr      pixfmt.Screen
	pix      []byte
	cmap     pixfmt.Colormap
	flushes  int
	onFlush  func(pix []byte, rects []layout.Rect)
	cmapSets int
}

// NewMemorySurface allocates a surface for scr.
func NewMemorySurface(scr pixfmt.Screen) *MemorySurface {
	return &MemorySurface{scr: scr, pix: make([]byte, scr.Size())}
}

// OnFlush registers f to run after every flush, with the surface locked.
func (m *MemorySurface) OnFlush(f func(pix []byte, rects []layout.Rect)) {
	m.mu.Lock()
	m.onFlush = f
	m.mu.Unlock()
}

func (m *MemorySurface) Screen() pixfmt.Screen { return m.scr }

func (m *MemorySurface) Flush(buf []byte, rects []layout.Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.scr.Format.BytesPerPixel()
	for _, r := range rects {
		r = layout.Intersect(r, m.scr.Bounds())
		for y := r.Y1; y <= r.Y2; y++ {
			off := m.scr.Offset(r.X1, y)
			copy(m.pix[off:off+r.Dx()*n], buf[off:])
		}
	}
	m.flushes++
	if m.onFlush != nil {
		m.onFlush(m.pix, rects)
	}
	return nil
}

func (m *MemorySurface) SetColormap(cm pixfmt.Colormap) error {
	m.mu.Lock()
	m.cmap = cm
	m.cmapSets++
	m.mu.Unlock()
	return nil
}

func (m *MemorySurface) Close() error { return nil }

// Pixels returns a copy of the flushed screen contents.
func (m *MemorySurface) Pixels() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.pix...)
}

// Colormap returns the last colour table set and how many were set.
func (m *MemorySurface) Colormap() (pixfmt.Colormap, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cmap, m.cmapSets
}

// Flushes returns the number of Flush calls.
func (m *MemorySurface) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// DeviceSurface writes through github.com/gonutz/framebuffer. It is the
// fallback when the framebuffer cannot be probed and mapped directly: the
// device's native layout is hidden behind Set, so the surface presents an
// XRGB8888 screen and converts per pixel.
type DeviceSurface struct {
	dev   *fb.Device
	scr   pixfmt.Screen
	codec *pixfmt.Codec
}

// OpenDevice opens the framebuffer device at path.
func OpenDevice(path string) (*DeviceSurface, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	b := dev.Bounds()
	scr := pixfmt.Screen{XRes: b.Dx(), YRes: b.Dy(), Format: pixfmt.XRGB8888}
	return &DeviceSurface{dev: dev, scr: scr, codec: pixfmt.NewCodec(scr.Format)}, nil
}

func (d *DeviceSurface) Screen() pixfmt.Screen { return d.scr }

func (d *DeviceSurface) Flush(buf []byte, rects []layout.Rect) error {
	origin := d.dev.Bounds().Min
	n := d.codec.BytesPerPixel()
	for _, r := range rects {
		r = layout.Intersect(r, d.scr.Bounds())
		for y := r.Y1; y <= r.Y2; y++ {
			row := buf[d.scr.Offset(0, y):]
			for x := r.X1; x <= r.X2; x++ {
				cr, cg, cb := d.codec.Unpack(row[x*n:])
				d.dev.Set(origin.X+x, origin.Y+y, color.RGBA{R: cr, G: cg, B: cb, A: 0xff})
			}
		}
	}
	return nil
}

// SetColormap is a no-op; the device package drives true-colour modes only.
func (d *DeviceSurface) SetColormap(pixfmt.Colormap) error { return nil }

func (d *DeviceSurface) Close() error {
	d.dev.Close()
	return nil
}
