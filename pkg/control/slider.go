// Package control holds input widgets that are independent of any window
// system. Renderers translate their own mouse events into Slider calls.
package control

import (
	"math"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Slider is a horizontal track with a draggable handle mapping the handle
// position linearly onto [Min, Max]. A Slider is not safe for concurrent use.
type Slider struct {
	// Position is the top-left corner of the track and Size its extent.
	Position physics.Vector2D
	Size     physics.Vector2D
	// HandleSize is the extent of the handle, centred on the track.
	HandleSize physics.Vector2D
	Min        float64
	Max        float64

	handle   float64 // normalized to [0, 1]
	grabbed  bool
	onChange func(float64)
}

// NewSlider creates a slider whose handle starts at the normalized position
// handle, clamped to [0, 1].
func NewSlider(position, size, handleSize physics.Vector2D, handle, min, max float64) *Slider {
	return &Slider{
		Position:   position,
		Size:       size,
		HandleSize: handleSize,
		Min:        min,
		Max:        max,
		handle:     clamp01(handle),
	}
}

// NewTimeSlider creates the time scale slider of the demo: 200 units wide at
// (0, 90) with a 20x10 handle.
func NewTimeSlider(min, max, value float64) *Slider {
	s := NewSlider(
		physics.Vector2D{X: 0, Y: 90},
		physics.Vector2D{X: 200, Y: 5},
		physics.Vector2D{X: 20, Y: 10},
		0.5, min, max,
	)
	s.SetValue(value)
	return s
}

// OnChange registers fn to be called with the new value whenever dragging
// moves the handle.
func (s *Slider) OnChange(fn func(value float64)) {
	s.onChange = fn
}

// HandlePosition returns the handle position normalized to [0, 1].
func (s *Slider) HandlePosition() float64 {
	return s.handle
}

// Value returns the value selected by the handle.
func (s *Slider) Value() float64 {
	return s.Min + (s.Max-s.Min)*s.handle
}

// SetValue moves the handle to value, clamped to [Min, Max]. It does not
// call the change callback.
func (s *Slider) SetValue(value float64) {
	if s.Max == s.Min {
		s.handle = 0
		return
	}
	s.handle = clamp01((value - s.Min) / (s.Max - s.Min))
}

// HandleCenter returns the centre of the handle.
func (s *Slider) HandleCenter() physics.Vector2D {
	return s.Position.Add(physics.Vector2D{X: s.handle * s.Size.X, Y: s.Size.Y / 2})
}

// HandleRect returns the area that grabs the handle.
func (s *Slider) HandleRect() physics.Rect {
	c := s.HandleCenter()
	return physics.Rect{
		Left:   c.X - s.HandleSize.X/2,
		Top:    c.Y - s.HandleSize.Y/2,
		Width:  s.HandleSize.X,
		Height: s.HandleSize.Y,
	}
}

// Grabbed reports whether the handle is being dragged.
func (s *Slider) Grabbed() bool {
	return s.grabbed
}

// MouseDown grabs the handle when the pointer is on it and reports whether
// it did.
func (s *Slider) MouseDown(x, y float64) bool {
	if s.HandleRect().Contains(physics.Vector2D{X: x, Y: y}) {
		s.grabbed = true
	}
	return s.grabbed
}

// MouseUp releases the handle.
func (s *Slider) MouseUp(x, y float64) {
	s.grabbed = false
}

// MouseMoved drags a grabbed handle to the pointer's x coordinate. Only the
// horizontal position matters.
func (s *Slider) MouseMoved(x, y float64) {
	if !s.grabbed || s.Size.X <= 0 {
		return
	}

	handle := clamp01((x - s.Position.X) / s.Size.X)
	if handle == s.handle {
		return
	}
	s.handle = handle
	if s.onChange != nil {
		s.onChange(s.Value())
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
