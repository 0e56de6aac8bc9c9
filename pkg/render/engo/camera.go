// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Viewport maps world coordinates onto the window with a uniform scale.
// The world point Origin is drawn at the screen point Offset.
type Viewport struct {
	Scale  float64
	Origin physics.Vector2D
	Offset physics.Vector2D
}

// FitViewport scales content to fit a width x height window, keeping its
// aspect ratio and centring it.
func FitViewport(content physics.Rect, width, height float64) Viewport {
	if content.Width <= 0 || content.Height <= 0 || width <= 0 || height <= 0 {
		return Viewport{Scale: 1, Origin: physics.Vector2D{X: content.Left, Y: content.Top}}
	}

	scale := math.Min(width/content.Width, height/content.Height)
	return Viewport{
		Scale:  scale,
		Origin: physics.Vector2D{X: content.Left, Y: content.Top},
		Offset: physics.Vector2D{
			X: (width - content.Width*scale) / 2,
			Y: (height - content.Height*scale) / 2,
		},
	}
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// WorldToScreen converts world coordinates to screen coordinates
func (v Viewport) WorldToScreen(p physics.Vector2D) physics.Vector2D {
	return p.Sub(v.Origin).Scale(v.scale()).Add(v.Offset)
}

// ScreenToWorld converts screen coordinates to world coordinates
func (v Viewport) ScreenToWorld(p physics.Vector2D) physics.Vector2D {
	return p.Sub(v.Offset).Scale(1 / v.scale()).Add(v.Origin)
}

// Length converts a world distance to screen units.
func (v Viewport) Length(l float64) float32 {
	return float32(l * v.scale())
}

// Point converts a world position to an engo screen point.
func (v Viewport) Point(p physics.Vector2D) engo.Point {
	s := v.WorldToScreen(p)
	return engo.Point{X: float32(s.X), Y: float32(s.Y)}
}

// RectSpace returns the screen position and size of a world rectangle.
func (v Viewport) RectSpace(r physics.Rect) (engo.Point, float32, float32) {
	return v.Point(physics.Vector2D{X: r.Left, Y: r.Top}), v.Length(r.Width), v.Length(r.Height)
}
