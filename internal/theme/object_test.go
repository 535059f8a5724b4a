package theme

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
)

func solid(r layout.Rect, c color.NRGBA) BoxShape {
	return BoxShape{Rect: r, C: [4]color.NRGBA{c, c, c, c}}
}

func TestBoxClass(t *testing.T) {
	a := color.NRGBA{R: 1, A: 255}
	b := color.NRGBA{G: 1, A: 255}
	tests := []struct {
		c    [4]color.NRGBA
		want BoxClass
	}{
		{[4]color.NRGBA{a, a, a, a}, BoxSolid},
		{[4]color.NRGBA{a, a, b, b}, BoxVGrad},
		{[4]color.NRGBA{a, b, a, b}, BoxHGrad},
		{[4]color.NRGBA{a, b, b, a}, BoxGradient},
	}
	for _, tt := range tests {
		if got := (BoxShape{C: tt.c}).Class(); got != tt.want {
			t.Errorf("Class(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestBoxDelta(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	vgrad := func(r layout.Rect) BoxShape {
		return BoxShape{Rect: r, C: [4]color.NRGBA{red, red, blue, blue}}
	}
	tests := []struct {
		name     string
		old, cur BoxShape
		want     []layout.Rect
		ok       bool
	}{
		{"unchanged", solid(layout.R(0, 0, 9, 9), red), solid(layout.R(0, 0, 9, 9), red), nil, true},
		{"grow right", solid(layout.R(0, 0, 9, 9), red), solid(layout.R(0, 0, 19, 9), red),
			[]layout.Rect{layout.R(10, 0, 19, 9)}, true},
		{"shrink right", solid(layout.R(0, 0, 19, 9), red), solid(layout.R(0, 0, 9, 9), red),
			[]layout.Rect{layout.R(10, 0, 19, 9)}, true},
		{"move left edge", solid(layout.R(5, 0, 9, 9), red), solid(layout.R(2, 0, 9, 9), red),
			[]layout.Rect{layout.R(2, 0, 4, 9)}, true},
		{"grow down", solid(layout.R(0, 0, 9, 4), red), solid(layout.R(0, 0, 9, 9), red),
			[]layout.Rect{layout.R(0, 5, 9, 9)}, true},
		{"colour change", solid(layout.R(0, 0, 9, 9), red), solid(layout.R(0, 0, 9, 9), blue), nil, false},
		{"vgrad width", vgrad(layout.R(0, 0, 9, 9)), vgrad(layout.R(0, 0, 19, 9)),
			[]layout.Rect{layout.R(10, 0, 19, 9)}, true},
		{"vgrad height", vgrad(layout.R(0, 0, 9, 9)), vgrad(layout.R(0, 0, 9, 19)), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := boxDelta(tt.old, tt.cur)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("strips = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("strip %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoxPrerenderPushesStrip(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	target := solid(layout.R(0, 0, 99, 9), red)
	b := &Box{Base: newBase(ModeVerbose, true), Shape: solid(layout.R(0, 0, 0, 9), red), Target: &target}

	var dirty layout.DirtyList
	b.Prerender(&Frame{Progress: 0}, &dirty)
	if got := dirty.Rects(); len(got) != 1 || got[0] != layout.R(0, 0, 0, 9) {
		t.Fatalf("first pass dirty = %v", got)
	}
	dirty.Reset()
	b.Prerender(&Frame{Progress: 32768}, &dirty)
	if got := dirty.Rects(); len(got) != 1 || got[0] != layout.R(1, 0, 49, 9) {
		t.Fatalf("progress step dirty = %v, want [{1 0 49 9}]", got)
	}
}

func TestBlend(t *testing.T) {
	b := newBase(ModeSilent, false)
	b.BlendIn = 100 * time.Millisecond
	now := time.Unix(1000, 0)
	b.SetVisible(true, now)
	if b.Opacity != 0 || !b.Blending() {
		t.Fatalf("blend did not start: opacity %d", b.Opacity)
	}
	b.StepBlend(now.Add(50 * time.Millisecond))
	if b.Opacity < 120 || b.Opacity > 135 {
		t.Errorf("half-way opacity = %d", b.Opacity)
	}
	b.StepBlend(now.Add(200 * time.Millisecond))
	if b.Opacity != 255 || b.Blending() {
		t.Errorf("blend did not finish: opacity %d", b.Opacity)
	}

	b.SetVisible(false, now)
	if b.Opacity != 0 || b.Blending() {
		t.Errorf("blend-out without a timer should be immediate")
	}
}

func TestAnimAdvance(t *testing.T) {
	frames := make([]*image.NRGBA, 3)
	for i := range frames {
		frames[i] = image.NewNRGBA(image.Rect(0, 0, 2, 2))
	}
	anim := &Animation{Frames: frames, Delays: []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}}
	now := time.Unix(0, 0)

	loop := &Anim{Base: newBase(ModeSilent, true), Anim: anim, Mode: AnimLoop}
	loop.Advance(now)
	for i := 1; i <= 4; i++ {
		if !loop.Advance(now.Add(time.Duration(i) * 50 * time.Millisecond)) {
			t.Fatalf("step %d did not advance", i)
		}
	}
	if loop.FrameIndex() != 1 {
		t.Errorf("loop frame after 4 steps = %d, want 1", loop.FrameIndex())
	}

	once := &Anim{Base: newBase(ModeSilent, true), Anim: anim, Mode: AnimOnce}
	once.Advance(now)
	for i := 1; i <= 5; i++ {
		once.Advance(now.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	if once.FrameIndex() != 2 {
		t.Errorf("once stopped at frame %d, want 2", once.FrameIndex())
	}
	if _, ok := once.Deadline(); ok {
		t.Errorf("finished animation still has a deadline")
	}

	prop := &Anim{Base: newBase(ModeSilent, true), Anim: anim, Mode: AnimProportional}
	var dirty layout.DirtyList
	prop.Prerender(&Frame{Progress: MaxProgress}, &dirty)
	if prop.FrameIndex() != 2 {
		t.Errorf("proportional frame at max = %d", prop.FrameIndex())
	}
}

func TestNotifyService(t *testing.T) {
	img := &IconImage{Img: image.NewNRGBA(image.Rect(0, 0, 4, 4))}
	th := newTheme(testScreen)
	ic := &Icon{Base: newBase(ModeSilent, false), Binding: Binding{Service: "foo", State: SvcStarted}, Image: img, X: 10, Y: 10}
	ic.Opacity = 0
	other := &Icon{Base: newBase(ModeSilent, true), Image: img}
	th.add(ic)
	th.add(other)
	for _, obj := range th.Objects {
		obj.Prerender(&Frame{}, &th.Dirty)
	}
	th.Dirty.Reset()

	now := time.Now()
	if n := th.NotifyService("bar", SvcStarted, now); n != 0 {
		t.Errorf("unrelated service changed %d objects", n)
	}
	if n := th.NotifyService("foo", SvcStart, now); n != 0 {
		t.Errorf("non-matching state changed %d objects", n)
	}
	if n := th.NotifyService("foo", SvcStarted, now); n != 1 {
		t.Fatalf("matching state changed %d objects, want 1", n)
	}
	if !ic.Visible || !ic.Invalid || ic.Opacity != 255 {
		t.Errorf("icon not shown: %+v", ic.Base)
	}
	ic.Prerender(&Frame{}, &th.Dirty)
	if got := th.Dirty.Rects(); len(got) != 1 || got[0] != layout.R(10, 10, 13, 13) {
		t.Errorf("dirty = %v, want the icon's bound", got)
	}

	th.ApplyServices(map[string]SvcState{"foo": SvcStopped}, now)
	if ic.Visible {
		t.Errorf("ApplyServices left the icon visible")
	}
}

func TestIconCrop(t *testing.T) {
	img := &IconImage{Img: image.NewNRGBA(image.Rect(0, 0, 10, 10))}
	from, to := layout.R(0, 0, 0, 9), layout.R(0, 0, 9, 9)
	ic := &Icon{Base: newBase(ModeSilent, true), Image: img, X: 5, Y: 5, Crop: &from, CropTo: &to}
	var dirty layout.DirtyList
	ic.Prerender(&Frame{Progress: MaxProgress}, &dirty)
	if ic.Bound != layout.R(5, 5, 14, 14) {
		t.Errorf("bound at max = %v", ic.Bound)
	}
	ic.Prerender(&Frame{Progress: 0}, &dirty)
	if ic.Bound != layout.R(5, 5, 5, 14) || ic.Source() != from {
		t.Errorf("bound at 0 = %v source %v", ic.Bound, ic.Source())
	}
}

func TestTextPrerender(t *testing.T) {
	th := newTheme(testScreen)
	f, err := th.font("", 12)
	if err != nil {
		t.Fatal(err)
	}
	tx := &Text{Base: newBase(ModeSilent, true), Font: f, Kind: TextMessage, X: 32, Y: 10, HAlign: AlignMiddle, Color: color.NRGBA{A: 255}}
	var dirty layout.DirtyList
	tx.Prerender(&Frame{Message: "at $progress%", Progress: MaxProgress}, &dirty)
	if tx.Value() != "at 100%" {
		t.Errorf("value = %q", tx.Value())
	}
	m := tx.Mask()
	if m == nil {
		t.Fatal("no mask")
	}
	if w := tx.Bound.Dx(); w != m.Rect.Dx() {
		t.Errorf("bound width %d, mask width %d", w, m.Rect.Dx())
	}
	if c := (tx.Bound.X1 + tx.Bound.X2) / 2; c < 31 || c > 33 {
		t.Errorf("middle-aligned text centred at %d, want 32", c)
	}
	inked := false
	for _, a := range m.Pix {
		if a != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Errorf("mask is blank")
	}

	two, err := rasterize(f.Face, "a\nb", AlignStart, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if two.Rect.Dy() != 2*f.Face.Metrics().Height.Ceil() {
		t.Errorf("two-line mask height %d", two.Rect.Dy())
	}
}

type recordLogger struct{ errs []string }

func (l *recordLogger) Infof(component, format string, args ...interface{}) {}
func (l *recordLogger) Errorf(component, format string, args ...interface{}) {
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

func TestTextLargerThanScreenIsSkipped(t *testing.T) {
	log := &recordLogger{}
	th, err := Parse(strings.NewReader(`text font.ttf 40 0 0 #ffffff "Booting the system, please wait"`),
		"t.cfg", LoadOptions{Screen: testScreen, Dir: fixtureDir(t), Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	if len(th.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(th.Objects))
	}
	tx := th.Objects[0].(*Text)
	var dirty layout.DirtyList
	tx.Prerender(&Frame{}, &dirty)
	if tx.Mask() != nil {
		t.Errorf("allocated a %v mask on a %dx%d screen", tx.Mask().Rect, testScreen.XRes, testScreen.YRes)
	}
	if !tx.Bound.Empty() {
		t.Errorf("bound = %v, want empty", tx.Bound)
	}
	if len(log.errs) != 1 || !strings.Contains(log.errs[0], "larger than the 64x48 screen") {
		t.Errorf("logged %q", log.errs)
	}

	log.errs = nil
	tx.Prerender(&Frame{}, &dirty)
	if len(log.errs) != 0 {
		t.Errorf("unchanged text logged again: %q", log.errs)
	}
}

func TestMessageSizeOutOfRange(t *testing.T) {
	th := parseString(t, t.TempDir(), "text_size=5000\n")
	if th.Message == nil {
		t.Fatal("no message object")
	}
	if th.Message.Font.Size > testScreen.YRes {
		t.Errorf("message font size %d", th.Message.Font.Size)
	}
	if len(th.Diagnostics) != 1 {
		t.Errorf("diagnostics = %v", th.Diagnostics)
	}
}
