package layout

import (
	"image"
	"math/rand"
	"testing"
)

func randRect(rng *rand.Rand) Rect {
	x1, y1 := rng.Intn(200)-50, rng.Intn(200)-50
	return Rect{x1, y1, x1 + rng.Intn(120), y1 + rng.Intn(120)}
}

func TestBoundContainsBoth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a, b := randRect(rng), randRect(rng)
		c := Bound(a, b)
		if !Contains(c, a) || !Contains(c, b) {
			t.Fatalf("Bound(%v, %v) = %v does not contain both", a, b, c)
		}
	}
}

func TestIntersectSelf(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a := randRect(rng)
		if got := Intersect(a, a); got != a {
			t.Fatalf("Intersect(%v, %v) = %v", a, a, got)
		}
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", R(0, 0, 10, 10), R(5, 5, 20, 20), true},
		{"touching edge pixel", R(0, 0, 10, 10), R(10, 10, 20, 20), true},
		{"adjacent", R(0, 0, 10, 10), R(11, 0, 20, 10), false},
		{"disjoint", R(0, 0, 10, 10), R(30, 30, 40, 40), false},
		{"nested", R(0, 0, 100, 100), R(10, 10, 20, 20), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	const maxProgress = 65535
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a, b := randRect(rng), randRect(rng)
		if got := Interpolate(a, b, 0, maxProgress); got != a {
			t.Fatalf("Interpolate(%v, %v, 0) = %v, want a", a, b, got)
		}
		if got := Interpolate(a, b, maxProgress, maxProgress); got != b {
			t.Fatalf("Interpolate(%v, %v, max) = %v, want b", a, b, got)
		}
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	got := Interpolate(R(0, 0, 0, 10), R(0, 0, 100, 10), 50, 100)
	if want := R(0, 0, 50, 10); got != want {
		t.Errorf("Interpolate midpoint = %v, want %v", got, want)
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(R(-5, -10, 2000, 30), 640, 480)
	if want := R(0, 0, 639, 30); got != want {
		t.Errorf("Sanitize = %v, want %v", got, want)
	}
}

func TestImageRoundTrip(t *testing.T) {
	r := R(3, 4, 10, 20)
	img := r.Image()
	if img != image.Rect(3, 4, 11, 21) {
		t.Fatalf("Image() = %v", img)
	}
	if back := FromImage(img); back != r {
		t.Errorf("FromImage(Image()) = %v, want %v", back, r)
	}
	if r.Dx() != 8 || r.Dy() != 17 {
		t.Errorf("Dx/Dy = %d/%d, want 8/17", r.Dx(), r.Dy())
	}
}

func TestDirtyListNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []Rect
		want []Rect
	}{
		{
			name: "inner dropped",
			in:   []Rect{R(10, 10, 20, 20), R(0, 0, 100, 100)},
			want: []Rect{R(0, 0, 100, 100)},
		},
		{
			name: "duplicates collapse",
			in:   []Rect{R(0, 0, 5, 5), R(0, 0, 5, 5), R(0, 0, 5, 5)},
			want: []Rect{R(0, 0, 5, 5)},
		},
		{
			name: "overlapping kept",
			in:   []Rect{R(0, 0, 10, 10), R(5, 5, 15, 15)},
			want: []Rect{R(0, 0, 10, 10), R(5, 5, 15, 15)},
		},
		{
			name: "chain",
			in:   []Rect{R(2, 2, 3, 3), R(1, 1, 5, 5), R(0, 0, 9, 9), R(50, 50, 60, 60)},
			want: []Rect{R(0, 0, 9, 9), R(50, 50, 60, 60)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l DirtyList
			for _, r := range tt.in {
				l.Push(r)
			}
			l.Normalize()
			got := l.Rects()
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Normalize() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDirtyListIgnoresEmpty(t *testing.T) {
	var l DirtyList
	l.Push(R(5, 5, 4, 10))
	if l.Len() != 0 {
		t.Errorf("empty rect was recorded")
	}
}
