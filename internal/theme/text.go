package theme

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/rook-computer/splashd/internal/render/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Align is one axis of a text hotspot.
type Align int

const (
	AlignStart Align = iota // left or top
	AlignMiddle
	AlignEnd // right or bottom
)

// Style bits for text objects.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleUnderline
)

// ParseStyle parses a run of b, i and u flags.
func ParseStyle(s string) (Style, bool) {
	var st Style
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		switch c {
		case 'b':
			st |= StyleBold
		case 'i':
			st |= StyleItalic
		case 'u':
			st |= StyleUnderline
		default:
			return 0, false
		}
	}
	return st, true
}

// TextKind says where a text object takes its string from.
type TextKind int

const (
	TextLiteral TextKind = iota
	// TextExec shows the output of a command run once at load.
	TextExec
	// TextEval expands environment variables and $progress every pass.
	TextEval
	// TextMessage shows the controller's status message.
	TextMessage
	// TextLog shows one line of the message log.
	TextLog
)

// Text is a string drawn with a font, anchored at a hotspot.
type Text struct {
	Base
	X, Y   int
	HAlign Align
	VAlign Align
	Font   *Font
	Style  Style
	Color  color.NRGBA
	Kind   TextKind
	// Source is the literal, the command output or the eval template.
	Source string
	// LogLine is the textbox row this object shows, counted from the top.
	LogLine  int
	LogLines int

	env   func(string) string
	value string
	valid bool
	mask  *image.Alpha
	// maxW and maxH bound the mask; 0 leaves it unbounded.
	maxW, maxH int
	logger     Logger
}

func (tx *Text) dependsOnProgress() bool {
	switch tx.Kind {
	case TextMessage:
		return true
	case TextEval:
		return strings.Contains(tx.Source, "progress")
	}
	return false
}

// Value returns the string shown after the last Prerender.
func (tx *Text) Value() string { return tx.value }

// Mask returns the coverage of the rendered string. Pixel (0, 0) of the
// mask lands on the top left of Bound.
func (tx *Text) Mask() *image.Alpha { return tx.mask }

func (tx *Text) resolve(f *Frame) string {
	pct := strconv.Itoa(f.ProgressPercent())
	switch tx.Kind {
	case TextEval:
		return os.Expand(tx.Source, func(k string) string {
			if k == "progress" {
				return pct
			}
			if tx.env != nil {
				return tx.env(k)
			}
			return os.Getenv(k)
		})
	case TextMessage:
		return strings.ReplaceAll(f.Message, "$progress", pct)
	case TextLog:
		i := len(f.Log) - tx.LogLines + tx.LogLine
		if i < 0 || i >= len(f.Log) {
			return ""
		}
		return f.Log[i]
	}
	return tx.Source
}

// Prerender resolves the string and re-rasterizes it when it changed.
func (tx *Text) Prerender(f *Frame, dirty *layout.DirtyList) {
	v := tx.resolve(f)
	if !tx.valid || v != tx.value {
		tx.value = v
		tx.valid = true
		mask, err := rasterize(tx.Font.Face, v, tx.HAlign, tx.Style, tx.maxW, tx.maxH)
		if err != nil && tx.logger != nil {
			tx.logger.Errorf("theme", "text %d: %v, not drawn", tx.ID, err)
		}
		tx.mask = mask
	}
	bound := layout.Rect{X1: 0, Y1: 0, X2: -1, Y2: -1}
	if tx.mask != nil {
		w, h := tx.mask.Rect.Dx(), tx.mask.Rect.Dy()
		x := tx.X - hotspot(tx.HAlign, w)
		y := tx.Y - hotspot(tx.VAlign, h)
		bound = layout.R(x, y, x+w-1, y+h-1)
	}
	tx.settle(bound, dirty)
}

func hotspot(a Align, size int) int {
	switch a {
	case AlignMiddle:
		return size / 2
	case AlignEnd:
		return size
	}
	return 0
}

// rasterize draws s into a coverage mask. Lines are split on newlines and
// aligned within the block by align. A mask that would exceed maxW x maxH
// is not allocated.
func rasterize(face font.Face, s string, align Align, style Style, maxW, maxH int) (*image.Alpha, error) {
	if s == "" || face == nil {
		return nil, nil
	}
	lines := strings.Split(s, "\n")
	m := face.Metrics()
	ascent, lineH := m.Ascent.Ceil(), m.Height.Ceil()
	if lineH <= 0 {
		lineH = ascent + m.Descent.Ceil()
	}
	widths := make([]int, len(lines))
	w := 0
	for i, l := range lines {
		widths[i] = font.MeasureString(face, l).Ceil()
		w = max(w, widths[i])
	}
	extra := 0
	if style&StyleBold != 0 {
		extra = 1
	}
	h := lineH * len(lines)
	if w == 0 || h == 0 {
		return nil, nil
	}
	fullW := w + extra
	if style&StyleItalic != 0 {
		fullW += h / 4
	}
	if maxW > 0 && (fullW > maxW || h > maxH) {
		return nil, fmt.Errorf("%dx%d text larger than the %dx%d screen", fullW, h, maxW, maxH)
	}
	mask := image.NewAlpha(image.Rect(0, 0, w+extra, h))
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	for i, l := range lines {
		x := hotspot(align, w) - hotspot(align, widths[i])
		base := ascent + i*lineH
		for dx := 0; dx <= extra; dx++ {
			d.Dot = fixed.P(x+dx, base)
			d.DrawString(l)
		}
		if style&StyleUnderline != 0 && widths[i] > 0 {
			uy := min(base+1, mask.Rect.Max.Y-1)
			for ux := x; ux < x+widths[i]+extra; ux++ {
				mask.SetAlpha(ux, uy, color.Alpha{A: 0xff})
			}
		}
	}
	if style&StyleItalic != 0 {
		mask = shear(mask)
	}
	return mask, nil
}

// shear slants a mask to the right by a quarter of its height.
func shear(src *image.Alpha) *image.Alpha {
	h := src.Rect.Dy()
	slant := h / 4
	dst := image.NewAlpha(image.Rect(0, 0, src.Rect.Dx()+slant, h))
	for y := 0; y < h; y++ {
		off := (h - 1 - y) / 4
		copy(dst.Pix[y*dst.Stride+off:], src.Pix[y*src.Stride:y*src.Stride+src.Rect.Dx()])
	}
	return dst
}
