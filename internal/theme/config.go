package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFile is a per-resolution theme config.
type ConfigFile struct {
	Path string
	W, H int
}

func parseConfigName(name string) (w, h int, ok bool) {
	base, found := strings.CutSuffix(name, ".cfg")
	if !found {
		return 0, 0, false
	}
	ws, hs, found := strings.Cut(base, "x")
	if !found {
		return 0, 0, false
	}
	var err error
	if w, err = parseInt(ws); err != nil || w <= 0 {
		return 0, 0, false
	}
	if h, err = parseInt(hs); err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// FindConfig selects the config in dir for an xres x yres screen: the exact
// WxH.cfg when present, otherwise the largest config with the same aspect
// ratio that fits on the screen.
func FindConfig(dir string, xres, yres int) (ConfigFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("read theme dir: %w", err)
	}
	var best ConfigFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w, h, ok := parseConfigName(e.Name())
		if !ok {
			continue
		}
		cf := ConfigFile{Path: filepath.Join(dir, e.Name()), W: w, H: h}
		if w == xres && h == yres {
			return cf, nil
		}
		if w*yres != h*xres || w > xres || h > yres {
			continue
		}
		if w > best.W {
			best = cf
		}
	}
	if best.Path == "" {
		return ConfigFile{}, fmt.Errorf("%s at %dx%d: %w", dir, xres, yres, ErrNoConfig)
	}
	return best, nil
}
