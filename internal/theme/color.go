package theme

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

var (
	errNoDigits = errors.New("no digits")
	errTrailing = errors.New("trailing characters")
)

// parseInt parses a C-style integer literal: optional sign, 0x for hex, a
// leading 0 for octal. The whole string must be consumed; a literal with no
// digits is an error rather than zero.
func parseInt(s string) (int, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	if s == "" {
		return 0, errNoDigits
	}
	n := 0
	for i, c := range s {
		d := digitVal(c)
		if d < 0 || d >= base {
			if i == 0 {
				return 0, errNoDigits
			}
			return 0, errTrailing
		}
		n = n*base + d
		if n > 1<<30 {
			return 0, strconv.ErrRange
		}
	}
	if neg {
		n = -n
	}
	return n, nil
}

func digitVal(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// parseColor parses #RRGGBB, #RRGGBBAA, 0xRRGGBB or 0xRRGGBBAA. Alpha
// defaults to opaque.
func parseColor(s string) (color.NRGBA, bool) {
	var hex string
	switch {
	case strings.HasPrefix(s, "#"):
		hex = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		hex = s[2:]
	default:
		return color.NRGBA{}, false
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func isColor(s string) bool {
	_, ok := parseColor(s)
	return ok
}
