package render

import (
	"context"
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// FadeDir selects the direction of a fade.
type FadeDir int

const (
	// FadeIn ramps from black to the image.
	FadeIn FadeDir = iota
	// FadeOut ramps from the image to black.
	FadeOut
)

// Fade defaults.
const (
	DefaultFadeSteps = 16
	DefaultFadeDelay = 30 * time.Millisecond
)

// FadeOptions tunes a fade. Zero values pick the defaults.
type FadeOptions struct {
	Steps int
	Delay time.Duration
}

func (o FadeOptions) normalize() FadeOptions {
	if o.Steps <= 0 {
		o.Steps = DefaultFadeSteps
	}
	if o.Delay <= 0 {
		o.Delay = DefaultFadeDelay
	}
	return o
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fade plays a transition between black and img on out. DirectColor
// screens animate the colour table and leave pixels alone; other screens
// re-pack every pixel per step from a lookup table. Cancelling ctx stops
// the fade where it is.
func Fade(ctx context.Context, out Surface, img []byte, dir FadeDir, opts FadeOptions) error {
	opts = opts.normalize()
	scr := out.Screen()
	if scr.Format.Visual == pixfmt.DirectColor {
		return fadeColormap(ctx, out, img, dir, opts)
	}
	return fadeTrueColor(ctx, out, img, dir, opts)
}

func fadeStep(dir FadeDir, i, steps int) int {
	if dir == FadeOut {
		return steps - i
	}
	return i
}

func fadeColormap(ctx context.Context, out Surface, img []byte, dir FadeDir, opts FadeOptions) error {
	scr := out.Screen()
	cm := pixfmt.LinearColormap(scr.Format)
	full := []layout.Rect{scr.Bounds()}
	if dir == FadeIn {
		if err := out.SetColormap(cm.Scale(0, opts.Steps)); err != nil {
			return err
		}
		if err := out.Flush(img, full); err != nil {
			return err
		}
	}
	var err error
	for i := 1; i <= opts.Steps; i++ {
		if err = out.SetColormap(cm.Scale(fadeStep(dir, i, opts.Steps), opts.Steps)); err != nil {
			return err
		}
		if i < opts.Steps {
			if err = sleepCtx(ctx, opts.Delay); err != nil {
				break
			}
		}
	}
	// the screen is left readable whatever happened
	_ = out.SetColormap(cm)
	if dir == FadeOut {
		_ = out.Flush(make([]byte, len(img)), full)
	}
	return err
}

func fadeTrueColor(ctx context.Context, out Surface, img []byte, dir FadeDir, opts FadeOptions) error {
	scr := out.Screen()
	codec := pixfmt.NewCodec(scr.Format)
	bpp := codec.BytesPerPixel()
	n := scr.XRes * scr.YRes

	// decode once into 8 bits per channel
	rgb := make([]byte, n*3)
	for i := 0; i < n; i++ {
		rgb[i*3], rgb[i*3+1], rgb[i*3+2] = codec.Unpack(img[i*bpp:])
	}

	frame := make([]byte, len(img))
	full := []layout.Rect{scr.Bounds()}
	var lut [256]uint8
	for i := 0; i <= opts.Steps; i++ {
		s := fadeStep(dir, i, opts.Steps)
		for v := range lut {
			lut[v] = uint8(v * s / opts.Steps)
		}
		for y := 0; y < scr.YRes; y++ {
			for x := 0; x < scr.XRes; x++ {
				k := y*scr.XRes + x
				p := frame[k*bpp:]
				codec.PutPixel(255, lut[rgb[k*3]], lut[rgb[k*3+1]], lut[rgb[k*3+2]], p, p, pixfmt.DitherPhase(x, y))
			}
		}
		if err := out.Flush(frame, full); err != nil {
			return err
		}
		if i < opts.Steps {
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// FadeJob is a fade running in the background.
type FadeJob struct {
	done chan struct{}
	err  error
}

// StartFade runs Fade on its own goroutine and returns immediately. img is
// copied, so the caller may keep rendering into its buffer.
func StartFade(ctx context.Context, out Surface, img []byte, dir FadeDir, opts FadeOptions) *FadeJob {
	snapshot := append([]byte(nil), img...)
	job := &FadeJob{done: make(chan struct{})}
	go func() {
		job.err = Fade(ctx, out, snapshot, dir, opts)
		close(job.done)
	}()
	return job
}

// Done is closed when the fade has finished.
func (j *FadeJob) Done() <-chan struct{} { return j.done }

// Wait blocks until the fade finishes or ctx ends, returning the fade's
// error in the first case.
func (j *FadeJob) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
