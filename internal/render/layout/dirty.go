package layout

// DirtyList accumulates screen regions that need repainting during one
// render pass.
type DirtyList struct {
	rects []Rect
}

// Push records r. Empty rects are ignored.
func (l *DirtyList) Push(r Rect) {
	if r.Empty() {
		return
	}
	l.rects = append(l.rects, r)
}

// Rects returns the accumulated rects. The slice is owned by the list.
func (l *DirtyList) Rects() []Rect { return l.rects }

// Len returns the number of recorded rects.
func (l *DirtyList) Len() int { return len(l.rects) }

// Reset empties the list, keeping its storage.
func (l *DirtyList) Reset() { l.rects = l.rects[:0] }

// Normalize drops every rect that is fully contained in another one, so no
// pixel inside a nested region is painted more than once. Order of the
// surviving rects is preserved. Identical rects collapse to the first.
func (l *DirtyList) Normalize() {
	l.rects = NormalizeRects(l.rects)
}

// NormalizeRects is the slice form of DirtyList.Normalize. It reuses the
// storage of rects.
func NormalizeRects(rects []Rect) []Rect {
	drop := make([]bool, len(rects))
	for i, r := range rects {
		for j, o := range rects {
			if i == j || drop[j] || !Contains(o, r) {
				continue
			}
			// For equal rects keep the earliest one.
			if o == r && j > i {
				continue
			}
			drop[i] = true
			break
		}
	}
	out := rects[:0]
	for i, r := range rects {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}
