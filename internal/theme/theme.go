// Package theme holds the splash scene graph: the objects a theme config
// describes, the parser that builds them, and the invalidation entry points
// the controller uses when progress or service state changes.
package theme

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/rook-computer/splashd/internal/render/layout"
	"github.com/rook-computer/splashd/internal/render/pixfmt"
)

// MaxProgress is the progress value of a finished boot.
const MaxProgress = 65535

// Logger matches the component logger used across splashd.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Mode is a bitmask of display modes an object is shown in.
type Mode uint8

const (
	ModeVerbose Mode = 1 << iota
	ModeSilent

	ModeAll = ModeVerbose | ModeSilent
)

func (m Mode) String() string {
	switch m {
	case ModeVerbose:
		return "verbose"
	case ModeSilent:
		return "silent"
	case ModeAll:
		return "silent,verbose"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode parses "silent" or "verbose".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return ModeSilent, true
	case "verbose":
		return ModeVerbose, true
	}
	return 0, false
}

// BootType is the kind of system transition a splash is shown for.
type BootType int

const (
	BootUp BootType = iota
	Reboot
	Shutdown
	Suspend
	Resume
	Other
)

var bootTypeNames = map[string]BootType{
	"bootup":   BootUp,
	"reboot":   Reboot,
	"shutdown": Shutdown,
	"suspend":  Suspend,
	"resume":   Resume,
	"other":    Other,
}

// ParseBootType parses a boot type keyword as used in <type> blocks.
func ParseBootType(s string) (BootType, bool) {
	bt, ok := bootTypeNames[strings.ToLower(strings.TrimSpace(s))]
	return bt, ok
}

func (b BootType) String() string {
	for name, v := range bootTypeNames {
		if v == b {
			return name
		}
	}
	return fmt.Sprintf("boottype(%d)", int(b))
}

// Picture is a decoded background image sized to the theme resolution.
type Picture struct {
	Path string
	Img  *image.NRGBA
	// Paletted is the 8bpp variant from pic256/silentpic256, if any.
	Paletted *image.Paletted
}

// Frame is the controller state a render pass is computed against.
type Frame struct {
	Progress int
	Mode     Mode
	Message  string
	// Log holds message-log lines, oldest first.
	Log []string
	Now time.Time
}

// ProgressPercent returns the progress as an integer percentage.
func (f *Frame) ProgressPercent() int { return f.Progress * 100 / MaxProgress }

// Theme is the root of a loaded splash theme. It owns every object, the
// shared icon images, the fonts and the native background buffers.
type Theme struct {
	Name       string
	Dir        string
	ConfigPath string

	// XRes and YRes are the resolution the config was written for.
	XRes, YRes int
	// XMarg and YMarg centre the theme on a larger screen.
	XMarg, YMarg int
	Screen       pixfmt.Screen

	Verbose *Picture
	Silent  *Picture
	BgColor color.NRGBA
	// TextArea is the verbose-mode console region (tx, ty, tw, th).
	TextArea layout.Rect

	// Objects are in paint order: earlier objects are painted first.
	Objects []Object
	// TextBox lists the message-log texts from <textbox> blocks.
	TextBox []*Text
	// Message is the status text object, nil if the theme has none.
	Message *Text

	Diagnostics []Diagnostic

	// Dirty collects regions during one render pass.
	Dirty layout.DirtyList

	images map[string]*IconImage
	anims  map[string]*Animation
	fonts  map[fontKey]*Font
	bg     map[Mode][]byte
	nextID int
}

func newTheme(scr pixfmt.Screen) *Theme {
	return &Theme{
		Screen:  scr,
		XRes:    scr.XRes,
		YRes:    scr.YRes,
		BgColor: color.NRGBA{A: 255},
		images:  make(map[string]*IconImage),
		anims:   make(map[string]*Animation),
		fonts:   make(map[fontKey]*Font),
		bg:      make(map[Mode][]byte),
	}
}

// add appends obj to the paint order and assigns its id.
func (t *Theme) add(obj Object) {
	t.nextID++
	obj.base().ID = t.nextID
	t.Objects = append(t.Objects, obj)
}

// Background returns the native-format background buffer for mode m, or nil
// when the screen depth has no incremental buffer (8bpp).
func (t *Theme) Background(m Mode) []byte {
	return t.bg[m]
}

// Picture returns the background picture used in mode m.
func (t *Theme) Picture(m Mode) *Picture {
	if m == ModeSilent && t.Silent != nil {
		return t.Silent
	}
	if t.Verbose != nil {
		return t.Verbose
	}
	return t.Silent
}

// Images returns the deduplicated icon images.
func (t *Theme) Images() []*IconImage {
	out := make([]*IconImage, 0, len(t.images))
	for _, img := range t.images {
		out = append(out, img)
	}
	return out
}

// Fonts returns the loaded fonts.
func (t *Theme) Fonts() []*Font {
	out := make([]*Font, 0, len(t.fonts))
	for _, f := range t.fonts {
		out = append(out, f)
	}
	return out
}

// InvalidateAll marks every object for recomputation.
func (t *Theme) InvalidateAll() {
	for _, obj := range t.Objects {
		obj.base().Invalid = true
	}
}

// InvalidateProgress marks every object whose rendering depends on the
// progress value.
func (t *Theme) InvalidateProgress() int {
	n := 0
	for _, obj := range t.Objects {
		if obj.dependsOnProgress() {
			obj.base().Invalid = true
			n++
		}
	}
	return n
}

// InvalidateMessage marks the status message and the message log texts.
func (t *Theme) InvalidateMessage() {
	if t.Message != nil {
		t.Message.Invalid = true
	}
	for _, tx := range t.TextBox {
		tx.Invalid = true
	}
}

// SetTextBox shows or hides the message log texts.
func (t *Theme) SetTextBox(on bool, now time.Time) {
	for _, tx := range t.TextBox {
		if tx.Visible != on {
			tx.SetVisible(on, now)
			tx.Invalid = true
		}
	}
}

// Free releases the buffers and decoded resources owned by the theme.
func (t *Theme) Free() {
	for _, f := range t.fonts {
		f.close()
	}
	t.Objects = nil
	t.TextBox = nil
	t.Message = nil
	t.images = nil
	t.anims = nil
	t.fonts = nil
	t.bg = nil
	t.Verbose = nil
	t.Silent = nil
	t.Dirty.Reset()
}
