// Package assets carries the resources splashd needs when a theme does not
// ship its own.
package assets

import "golang.org/x/image/font/gofont/goregular"

// FontTTF is the fallback font used for text objects whose font file is
// missing or unreadable.
var FontTTF = goregular.TTF

// FallbackSize is the point size used when a text object gives none.
const FallbackSize = 16
