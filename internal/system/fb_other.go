//go:build !linux

package system

import (
	"errors"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

var errNoFramebuffer = errors.New("framebuffer devices are only supported on linux")

type Framebuffer struct{}

func OpenFramebuffer(path string) (*Framebuffer, error) { return nil, errNoFramebuffer }

func (*Framebuffer) Screen() pixfmt.Screen             { return pixfmt.Screen{} }
func (*Framebuffer) Flush([]byte, []layout.Rect) error { return errNoFramebuffer }
func (*Framebuffer) SetColormap(pixfmt.Colormap) error { return errNoFramebuffer }
func (*Framebuffer) Close() error                      { return nil }
