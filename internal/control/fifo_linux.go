//go:build linux

package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// pollMillis bounds how long a read waits before rechecking the context.
const pollMillis = 250

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Reader serves commands from a FIFO. Every writer that opens the FIFO
// gets its lines parsed in order; when the last writer closes, the FIFO is
// opened again for the next one.
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

// Run creates the FIFO if needed and calls handle for every command until
// ctx is cancelled or handle returns false. Lines that do not parse are
// logged and skipped.
func (r *Reader) Run(ctx context.Context, handle func(Command) bool) error {
	if err := ensureFIFO(r.Path); err != nil {
		return err
	}
	for {
		fd, err := unix.Open(r.Path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			return fmt.Errorf("open %s: %w", r.Path, err)
		}
		more, err := r.session(ctx, &pollReader{ctx: ctx, fd: fd}, handle)
		_ = unix.Close(fd)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !more {
			return nil
		}
	}
}

// session reads until the writers go away.
func (r *Reader) session(ctx context.Context, in io.Reader, handle func(Command) bool) (bool, error) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, err := Parse(line)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Errorf("control", "%v", err)
			}
			continue
		}
		if !handle(cmd) {
			return false, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, err
	}
	return ctx.Err() == nil, nil
}

func ensureFIFO(path string) error {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("%s exists and is not a FIFO", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := unix.Mkfifo(path, 0600); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

// pollReader reads a non-blocking descriptor, waking up periodically to
// notice cancellation.
type pollReader struct {
	ctx context.Context
	fd  int
}

func (p *pollReader) Read(buf []byte) (int, error) {
	for {
		if err := p.ctx.Err(); err != nil {
			return 0, err
		}
		fds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, pollMillis); err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, err
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
			continue
		}
		n, err := unix.Read(p.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Send writes commands to a running daemon's FIFO. It fails at once when
// nothing is reading.
func Send(path string, cmds ...string) error {
	if path == "" {
		path = DefaultFIFO
	}
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	_, err = io.WriteString(f, strings.Join(cmds, "\n")+"\n")
	return err
}
