//go:build linux

package system

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// Framebuffer is a memory-mapped Linux framebuffer device in its native
// pixel layout.
type Framebuffer struct {
	mu         sync.Mutex
	fd         int
	mem        []byte
	scr        pixfmt.Screen
	lineLength int
	// origin is the byte offset of the visible panning window.
	origin int
}

// OpenFramebuffer probes the device at path and maps its memory.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	if path == "" {
		path = DefaultFramebuffer
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var v varScreenInfo
	var f fixScreenInfo
	if err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&v)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO on %s: %w", path, err)
	}
	if err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&f)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO on %s: %w", path, err)
	}
	scr, err := screenFromInfo(&v, &f, hostBigEndian())
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mem, err := unix.Mmap(fd, 0, int(f.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	fb := &Framebuffer{
		fd:         fd,
		mem:        mem,
		scr:        scr,
		lineLength: int(f.LineLength),
		origin:     int(v.YOffset)*int(f.LineLength) + int(v.XOffset)*scr.Format.BytesPerPixel(),
	}
	if fb.origin+(scr.YRes-1)*fb.lineLength+scr.Stride() > len(mem) {
		fb.Close()
		return nil, fmt.Errorf("%s: visible area exceeds the %d byte mapping", path, len(mem))
	}
	return fb, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

func hostBigEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 0
}

func (fb *Framebuffer) Screen() pixfmt.Screen { return fb.scr }

// Flush copies the rects of buf into video memory, honouring the device's
// row padding and panning offset.
func (fb *Framebuffer) Flush(buf []byte, rects []layout.Rect) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mem == nil {
		return errors.New("framebuffer closed")
	}
	n := fb.scr.Format.BytesPerPixel()
	for _, r := range rects {
		r = layout.Intersect(r, fb.scr.Bounds())
		if r.Empty() {
			continue
		}
		w := r.Dx() * n
		for y := r.Y1; y <= r.Y2; y++ {
			src := fb.scr.Offset(r.X1, y)
			dst := fb.origin + y*fb.lineLength + r.X1*n
			copy(fb.mem[dst:dst+w], buf[src:src+w])
		}
	}
	return nil
}

type fbCmap struct {
	Start  uint32
	Len    uint32
	Red    *uint16
	Green  *uint16
	Blue   *uint16
	Transp *uint16
}

// SetColormap loads cm through FBIOPUTCMAP.
func (fb *Framebuffer) SetColormap(cm pixfmt.Colormap) error {
	if cm.Len() == 0 {
		return nil
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c := fbCmap{
		Start: uint32(cm.Start),
		Len:   uint32(cm.Len()),
		Red:   &cm.Red[0],
		Green: &cm.Green[0],
		Blue:  &cm.Blue[0],
	}
	if err := ioctl(fb.fd, fbioPutCmap, unsafe.Pointer(&c)); err != nil {
		return fmt.Errorf("FBIOPUTCMAP: %w", err)
	}
	return nil
}

func (fb *Framebuffer) Close() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var errs []error
	if fb.mem != nil {
		if err := unix.Munmap(fb.mem); err != nil {
			errs = append(errs, fmt.Errorf("munmap: %w", err))
		}
		fb.mem = nil
	}
	if fb.fd > 0 {
		if err := unix.Close(fb.fd); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
		fb.fd = -1
	}
	return errors.Join(errs...)
}
