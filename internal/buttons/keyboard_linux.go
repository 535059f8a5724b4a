//go:build linux

package buttons

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

type keyboardLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Keyboard watches Linux evdev devices under /dev/input/event* for the
// splash hot keys: F2 switches between silent and verbose mode, F3 shows
// or hides the message log.
type Keyboard struct {
	Glob   string
	Logger keyboardLogger

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKeyboard(logger keyboardLogger) *Keyboard {
	return &Keyboard{Glob: "/dev/input/event*", Logger: logger, ch: make(chan Event, 8)}
}

func (k *Keyboard) Events() <-chan Event { return k.ch }

// Start spawns one reader per input device. It is best-effort: without
// devices it logs and returns nil, and Events simply never fires.
func (k *Keyboard) Start(ctx context.Context) error {
	paths, err := filepath.Glob(k.Glob)
	if err != nil || len(paths) == 0 {
		if k.Logger != nil {
			k.Logger.Infof("input", "no evdev devices found, hot keys disabled")
		}
		return nil
	}
	ctx, k.cancel = context.WithCancel(ctx)

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	for _, path := range paths {
		k.wg.Add(1)
		go func() {
			defer k.wg.Done()
			k.watch(ctx, path, tvSize)
		}()
	}
	return nil
}

func (k *Keyboard) watch(ctx context.Context, path string, tvSize int) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	emit := func(ev Event) {
		if k.Logger != nil {
			k.Logger.Infof("input", "%s on %s", ev, path)
		}
		select {
		case k.ch <- ev:
		case <-ctx.Done():
		}
	}

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, pollErr := unix.Poll(pollFds, 250)
		if pollErr != nil {
			if pollErr == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, readErr := unix.Read(fd, buf)
		if readErr != nil {
			if readErr == unix.EAGAIN || readErr == unix.EINTR {
				continue
			}
			return
		}
		decodeEvents(buf[:n], tvSize, emit)
	}
}

// Stop ends the device readers and closes the event channel.
func (k *Keyboard) Stop() error {
	if k.cancel != nil {
		k.cancel()
	}
	k.wg.Wait()
	close(k.ch)
	return nil
}
