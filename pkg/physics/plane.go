// pkg/physics/plane.go
package physics

// Plane is an infinite straight boundary given by a point on it and a unit
// normal. The normal points toward the side bodies are allowed to occupy, so
// for arena walls distances are measured into the arena.
type Plane struct {
	Position Vector2D
	Normal   Vector2D
}

// NewPlane builds a plane through position, normalizing normal.
func NewPlane(position, normal Vector2D) Plane {
	return Plane{Position: position, Normal: normal.Normalize()}
}

// SignedDistance returns the distance from the plane to point along the
// normal. It is positive on the allowed side.
func (p Plane) SignedDistance(point Vector2D) float64 {
	return point.Sub(p.Position).Dot(p.Normal)
}
