package pixfmt

import "image/color"

// Colormap is a hardware colour lookup table with 16-bit entries, as
// loaded through FBIOPUTCMAP.
type Colormap struct {
	Start int
	Red   []uint16
	Green []uint16
	Blue  []uint16
}

// Len returns the number of entries.
func (cm Colormap) Len() int { return len(cm.Red) }

func ramp(length uint) []uint16 {
	n := 1 << length
	out := make([]uint16, n)
	for i := range out {
		if n > 1 {
			out[i] = uint16(i * 0xffff / (n - 1))
		}
	}
	return out
}

// LinearColormap returns the identity ramp a DirectColor visual needs so
// that packed channel values map linearly to intensity. The table is as
// long as the widest channel; narrower channels repeat their last entry.
func LinearColormap(f Format) Colormap {
	r, g, b := ramp(f.Red.Length), ramp(f.Green.Length), ramp(f.Blue.Length)
	n := max(len(r), len(g), len(b))
	cm := Colormap{Red: make([]uint16, n), Green: make([]uint16, n), Blue: make([]uint16, n)}
	for i := 0; i < n; i++ {
		cm.Red[i] = r[min(i, len(r)-1)]
		cm.Green[i] = g[min(i, len(g)-1)]
		cm.Blue[i] = b[min(i, len(b)-1)]
	}
	return cm
}

// PaletteColormap converts an 8-bit image palette into a colormap.
func PaletteColormap(p color.Palette) Colormap {
	cm := Colormap{Red: make([]uint16, len(p)), Green: make([]uint16, len(p)), Blue: make([]uint16, len(p))}
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		cm.Red[i], cm.Green[i], cm.Blue[i] = uint16(r), uint16(g), uint16(b)
	}
	return cm
}

// Scale returns a copy of cm with every entry multiplied by step/steps.
func (cm Colormap) Scale(step, steps int) Colormap {
	if steps <= 0 {
		return cm
	}
	scale := func(in []uint16) []uint16 {
		out := make([]uint16, len(in))
		for i, v := range in {
			out[i] = uint16(uint32(v) * uint32(step) / uint32(steps))
		}
		return out
	}
	return Colormap{Start: cm.Start, Red: scale(cm.Red), Green: scale(cm.Green), Blue: scale(cm.Blue)}
}
