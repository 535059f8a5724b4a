// Package script drives the simulator with a scripted boot sequence.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/splashd/internal/control"
)

// Step is one line of the simulated init sequence.
type Step struct {
	After time.Duration
	Line  string
}

var services = []string{"udev", "sysfs", "hostname", "fsck", "localmount", "net.lo", "syslog", "sshd", "cron", "xdm"}

// BootSteps builds a boot that starts every service in services while
// advancing the progress bar. cron fails to start.
func BootSteps() []Step {
	steps := []Step{
		{0, "set message Booting the system (bootup)"},
		{0, "log Simulated boot started"},
	}
	for i, svc := range services {
		steps = append(steps,
			Step{200 * time.Millisecond, "update_svc " + svc + " svc_start"},
			Step{0, "log Starting " + svc + " ..."},
		)
		result := "svc_started"
		if svc == "cron" {
			result = "svc_start_failed"
		}
		progress := (i + 1) * 65535 / len(services)
		steps = append(steps,
			Step{400 * time.Millisecond, "update_svc " + svc + " " + result},
			Step{0, fmt.Sprintf("set progress %d", progress)},
		)
	}
	return append(steps,
		Step{300 * time.Millisecond, "set message Boot complete"},
		Step{0, "log Boot finished"},
	)
}

// Boot feeds steps to the controller. It can be paused between
// steps.
type Boot struct {
	steps  []Step
	paused atomic.Bool
	resume chan struct{}
}

// NewBoot returns a script playing BootSteps.
func NewBoot() *Boot { return New(BootSteps()) }

// New returns a script playing steps.
func New(steps []Step) *Boot {
	return &Boot{steps: steps, resume: make(chan struct{}, 1)}
}

// TogglePause pauses or resumes the script and returns whether it is now
// paused.
func (b *Boot) TogglePause() bool {
	for {
		old := b.paused.Load()
		if b.paused.CompareAndSwap(old, !old) {
			if old {
				select {
				case b.resume <- struct{}{}:
				default:
				}
			}
			return !old
		}
	}
}

func (b *Boot) Run(ctx context.Context, handle func(control.Command) bool) error {
	for _, step := range b.steps {
		if err := b.wait(ctx, step.After); err != nil {
			return nil
		}
		cmd, err := control.Parse(step.Line)
		if err != nil {
			return fmt.Errorf("boot script %q: %w", step.Line, err)
		}
		if !handle(cmd) {
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

func (b *Boot) wait(ctx context.Context, d time.Duration) error {
	for b.paused.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.resume:
		}
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Multi runs several command sources side by side. The first one to
// stop the dispatcher stops the others.
type Multi []interface {
	Run(ctx context.Context, handle func(control.Command) bool) error
}

func (m Multi) Run(ctx context.Context, handle func(control.Command) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, src := range m {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := src.Run(ctx, func(cmd control.Command) bool {
				if !handle(cmd) {
					cancel()
					return false
				}
				return true
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
