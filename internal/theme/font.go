package theme

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/splashd/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	path string
	size int
}

// Font is a loaded face at one size. Texts using the same file and size
// share it.
type Font struct {
	Path string
	Size int
	Face font.Face
	// Fallback is set when the face is not the requested file.
	Fallback bool
}

func (f *Font) close() {
	if f.Face != nil {
		_ = f.Face.Close()
	}
}

// glyphCacheBudget bounds the glyph mask cache of one face, in bytes.
const glyphCacheBudget = 4 << 20

// glyphCacheEntries sizes the truetype glyph cache. Each entry holds a mask
// as large as the font's bounding box, so big sizes get fewer entries.
func glyphCacheEntries(size int) int {
	per := 4 * size * size
	n := 512
	for n > 1 && n*per > glyphCacheBudget {
		n /= 2
	}
	return n
}

// openFace loads path at size points without hinting, so glyphs render as
// plain bitmaps.
func openFace(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return truetype.NewFace(tt, &truetype.Options{
		Size:              float64(size),
		DPI:               72,
		Hinting:           font.HintingNone,
		GlyphCacheEntries: glyphCacheEntries(size),
	}), nil
}

// fallbackFace returns the built-in font at size, or the fixed 7x13 bitmap
// face if even that cannot be parsed.
func fallbackFace(size int) font.Face {
	fnt, err := opentype.Parse(assets.FontTTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// font returns the shared face for path at size, loading it on first use.
// Load failures fall back to the built-in font and are reported through err
// while still returning a usable Font.
func (t *Theme) font(path string, size int) (*Font, error) {
	if size <= 0 {
		size = assets.FallbackSize
	}
	key := fontKey{path: path, size: size}
	if f, ok := t.fonts[key]; ok {
		return f, nil
	}
	f := &Font{Path: path, Size: size}
	var err error
	if path != "" {
		f.Face, err = openFace(path, size)
	}
	if f.Face == nil {
		f.Face = fallbackFace(size)
		f.Fallback = true
	}
	t.fonts[key] = f
	return f, err
}
