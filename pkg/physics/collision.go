// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Overlaps reports whether two circles interpenetrate. Circles that only
// touch do not overlap.
func (c Circle) Overlaps(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() < r*r
}

// Touches reports whether two circles are in contact or overlapping.
func (c Circle) Touches(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() <= r*r
}

// Wall indices into the array returned by Rect.Planes.
const (
	LeftWall = iota
	RightWall
	TopWall
	BottomWall
)

// Rect is an axis aligned rectangle in screen orientation: Top is the smaller
// y coordinate.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Center returns the middle of the rectangle
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Contains reports whether point lies inside the rectangle, edges included.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Left &&
		point.X <= r.Right() &&
		point.Y >= r.Top &&
		point.Y <= r.Bottom()
}

// ContainsCircle reports whether the whole circle lies inside the rectangle.
// A circle touching an edge is still contained.
func (r Rect) ContainsCircle(c Circle) bool {
	return c.Center.X-c.Radius >= r.Left &&
		c.Center.X+c.Radius <= r.Right() &&
		c.Center.Y-c.Radius >= r.Top &&
		c.Center.Y+c.Radius <= r.Bottom()
}

// Planes returns the four walls of the rectangle, indexed by LeftWall,
// RightWall, TopWall and BottomWall. Every normal points into the rectangle.
func (r Rect) Planes() [4]Plane {
	return [4]Plane{
		LeftWall:   {Position: Vector2D{X: r.Left, Y: 0}, Normal: Vector2D{X: 1, Y: 0}},
		RightWall:  {Position: Vector2D{X: r.Right(), Y: 0}, Normal: Vector2D{X: -1, Y: 0}},
		TopWall:    {Position: Vector2D{X: 0, Y: r.Top}, Normal: Vector2D{X: 0, Y: 1}},
		BottomWall: {Position: Vector2D{X: 0, Y: r.Bottom()}, Normal: Vector2D{X: 0, Y: -1}},
	}
}
