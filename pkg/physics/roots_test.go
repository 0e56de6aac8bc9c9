// pkg/physics/roots_test.go
package physics

import (
	"math"
	"testing"
)

func TestFindRoots(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		wantOK  bool
		roots   [2]float64
	}{
		{name: "two_roots", a: 1, b: -3, c: 2, wantOK: true, roots: [2]float64{1, 2}},
		{name: "double_root", a: 1, b: -4, c: 4, wantOK: true, roots: [2]float64{2, 2}},
		{name: "negative_leading", a: -2, b: 0, c: 8, wantOK: true, roots: [2]float64{-2, 2}},
		{name: "zero_root", a: 3, b: 6, c: 0, wantOK: true, roots: [2]float64{-2, 0}},
		{name: "no_real_roots", a: 1, b: 0, c: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r1, r2, ok := FindRoots(tt.a, tt.b, tt.c)
			if ok != tt.wantOK {
				t.Fatalf("FindRoots() ok = %v, expected %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			lo, hi := math.Min(r1, r2), math.Max(r1, r2)
			if math.Abs(lo-tt.roots[0]) > epsilon || math.Abs(hi-tt.roots[1]) > epsilon {
				t.Errorf("FindRoots() = (%v, %v), expected %v", r1, r2, tt.roots)
			}
			for _, r := range []float64{r1, r2} {
				if residual := tt.a*r*r + tt.b*r + tt.c; math.Abs(residual) > epsilon {
					t.Errorf("root %v leaves residual %v", r, residual)
				}
			}
		})
	}
}

func TestFindRoots_ZeroLeadingCoefficientPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FindRoots() with a == 0 did not panic")
		}
	}()
	FindRoots(0, 1, 1)
}
