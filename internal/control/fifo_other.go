//go:build !linux

package control

import (
	"context"
	"errors"
)

var errNoFIFO = errors.New("control FIFO is only supported on linux")

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type Reader struct {
	Path   string
	Logger logger
}

func NewReader(path string) *Reader {
	if path == "" {
		path = DefaultFIFO
	}
	return &Reader{Path: path}
}

func (r *Reader) Run(ctx context.Context, handle func(Command) bool) error { return errNoFIFO }

func Send(path string, cmds ...string) error { return errNoFIFO }
