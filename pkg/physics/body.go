// pkg/physics/body.go
package physics

import "fmt"

// Body is a moving circular rigid body. It has no rotation; Radius is only
// used for contact detection.
type Body struct {
	Position Vector2D
	Velocity Vector2D
	Radius   float64
	Mass     float64
}

// Circle returns the collision shape of the body at its current position.
func (b Body) Circle() Circle {
	return Circle{Center: b.Position, Radius: b.Radius}
}

// Displace translates the body by offset.
func (b *Body) Displace(offset Vector2D) {
	b.Position = b.Position.Add(offset)
}

// Advance moves the body in a straight line for dt, which may be negative.
func (b *Body) Advance(dt float64) {
	b.Displace(b.Velocity.Scale(dt))
}

// KineticEnergy returns 1/2 m |v|^2
func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LengthSquared()
}

// Momentum returns m v
func (b Body) Momentum() Vector2D {
	return b.Velocity.Scale(b.Mass)
}

// ResolveCollision returns the velocities of a and b after a perfectly
// elastic collision. Both velocities are rotated into the frame whose x axis
// is the line of centres, the one dimensional elastic formula is applied to
// the x components, and the result is rotated back. The perpendicular
// components pass through unchanged. Neither body is modified.
//
// The mass sum must be nonzero.
func ResolveCollision(a, b Body) (Vector2D, Vector2D) {
	massSum := a.Mass + b.Mass
	if massSum == 0 {
		panic(fmt.Sprintf("physics: ResolveCollision with zero mass sum (%v + %v)", a.Mass, b.Mass))
	}

	angle := a.Position.Sub(b.Position).Angle()
	ua := a.Velocity.Rotate(-angle)
	ub := b.Velocity.Rotate(-angle)

	ax := ua.X*(a.Mass-b.Mass)/massSum + ub.X*2*b.Mass/massSum
	bx := ub.X*(b.Mass-a.Mass)/massSum + ua.X*2*a.Mass/massSum

	va := Vector2D{X: ax, Y: ua.Y}.Rotate(angle)
	vb := Vector2D{X: bx, Y: ub.Y}.Rotate(angle)
	return va, vb
}

// CollisionTime returns the time until a and b touch, assuming both keep
// their current velocities. The contact condition
//
//	|(pa - pb) + (va - vb) t| = ra + rb
//
// is a quadratic in t whose roots are the entering and leaving tangencies.
// Scanning forward the smallest non-negative root is returned; with
// invertTime the largest non-positive root is returned. If the preferred root
// has the wrong sign the other root is tried. ok is false when the bodies
// never touch or neither root lies in the requested direction.
//
// Bodies that are exactly tangent report a time of zero.
func CollisionTime(a, b Body, invertTime bool) (float64, bool) {
	dp := a.Position.Sub(b.Position)
	dv := a.Velocity.Sub(b.Velocity)

	qa := dv.LengthSquared()
	if qa == 0 {
		// no relative motion, the distance never changes
		return 0, false
	}

	r := a.Radius + b.Radius
	qb := 2 * dp.Dot(dv)
	qc := dp.LengthSquared() - r*r

	t1, t2, ok := FindRoots(qa, qb, qc)
	if !ok {
		return 0, false
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return pickRoot(t1, t2, invertTime)
}

// pickRoot selects the root nearest to zero in the requested direction.
// t1 must not exceed t2.
func pickRoot(t1, t2 float64, invertTime bool) (float64, bool) {
	if invertTime {
		switch {
		case t2 <= 0:
			return t2, true
		case t1 <= 0:
			return t1, true
		}
		return 0, false
	}

	switch {
	case t1 >= 0:
		return t1, true
	case t2 >= 0:
		return t2, true
	}
	return 0, false
}

// Approaching reports whether the distance between a and b shrinks when time
// runs in the requested direction.
func Approaching(a, b Body, invertTime bool) bool {
	closing := a.Position.Sub(b.Position).Dot(a.Velocity.Sub(b.Velocity))
	if invertTime {
		return closing > 0
	}
	return closing < 0
}

// ResolvePlaneCollision reflects the velocity component along the plane
// normal: v' = v - 2 (v.n) n.
func (b *Body) ResolvePlaneCollision(p Plane) {
	vn := b.Velocity.Dot(p.Normal)
	b.Velocity = b.Velocity.Sub(p.Normal.Scale(2 * vn))
}

// PlaneCollisionTime returns the time until the edge of the body reaches the
// plane. It solves d + t*vn = radius where d and vn are the position (relative
// to the plane) and the velocity projected on the normal. ok is false when
// the contact lies in the other time direction, and also when the body moves
// parallel to the plane: sliding along a wall is a valid state, so it reports
// no collision instead of panicking.
func (b Body) PlaneCollisionTime(p Plane, invertTime bool) (float64, bool) {
	vn := b.Velocity.Dot(p.Normal)
	if vn == 0 {
		return 0, false
	}

	t := (b.Radius - p.SignedDistance(b.Position)) / vn
	if invertTime {
		if t > 0 {
			return 0, false
		}
	} else if t < 0 {
		return 0, false
	}
	return t, true
}

// ApproachingPlane reports whether the body moves toward the plane when time
// runs in the requested direction.
func (b Body) ApproachingPlane(p Plane, invertTime bool) bool {
	vn := b.Velocity.Dot(p.Normal)
	if invertTime {
		return vn > 0
	}
	return vn < 0
}

// PenetratesPlane reports whether the body reaches past the plane.
func (b Body) PenetratesPlane(p Plane) bool {
	return p.SignedDistance(b.Position) < b.Radius
}
