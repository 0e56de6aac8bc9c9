// pkg/physics/roots.go
package physics

import "math"

// FindRoots returns the real roots of a*t^2 + b*t + c. ok is false when the
// discriminant is negative. The roots are not ordered.
//
// a must be nonzero; the linear case is not handled and panics.
func FindRoots(a, b, c float64) (r1, r2 float64, ok bool) {
	if a == 0 {
		panic("physics: FindRoots called with zero leading coefficient")
	}

	bSq := b * b
	fourAC := 4 * a * c
	if fourAC > bSq {
		return 0, 0, false
	}

	sqrtTerm := math.Sqrt(bSq - fourAC)
	twoA := 2 * a
	return (-b + sqrtTerm) / twoA, (-b - sqrtTerm) / twoA, true
}
