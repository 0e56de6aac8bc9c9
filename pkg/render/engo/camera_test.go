package engo

import (
	"testing"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-ballpit/pkg/physics"
)

func TestFitViewport(t *testing.T) {
	tests := []struct {
		name       string
		content    physics.Rect
		width      float64
		height     float64
		wantScale  float64
		wantOffset physics.Vector2D
		world      physics.Vector2D
		screen     physics.Vector2D
	}{
		{
			name:      "exact_fit",
			content:   physics.Rect{Width: 820, Height: 960},
			width:     820,
			height:    960,
			wantScale: 1,
			world:     physics.Vector2D{X: 10, Y: 150},
			screen:    physics.Vector2D{X: 10, Y: 150},
		},
		{
			name:       "letterboxed",
			content:    physics.Rect{Width: 100, Height: 200},
			width:      400,
			height:     400,
			wantScale:  2,
			wantOffset: physics.Vector2D{X: 100, Y: 0},
			world:      physics.Vector2D{X: 50, Y: 100},
			screen:     physics.Vector2D{X: 200, Y: 200},
		},
		{
			name:      "shifted_origin",
			content:   physics.Rect{Left: 10, Top: 20, Width: 100, Height: 100},
			width:     50,
			height:    50,
			wantScale: 0.5,
			world:     physics.Vector2D{X: 110, Y: 120},
			screen:    physics.Vector2D{X: 50, Y: 50},
		},
		{
			name:      "degenerate_content",
			content:   physics.Rect{Width: 0, Height: 100},
			width:     50,
			height:    50,
			wantScale: 1,
			world:     physics.Vector2D{X: 3, Y: 4},
			screen:    physics.Vector2D{X: 3, Y: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FitViewport(tt.content, tt.width, tt.height)

			if v.Scale != tt.wantScale {
				t.Errorf("Scale = %v, expected %v", v.Scale, tt.wantScale)
			}
			if v.Offset != tt.wantOffset {
				t.Errorf("Offset = %v, expected %v", v.Offset, tt.wantOffset)
			}
			if got := v.WorldToScreen(tt.world); got != tt.screen {
				t.Errorf("WorldToScreen(%v) = %v, expected %v", tt.world, got, tt.screen)
			}
			if got := v.ScreenToWorld(tt.screen); got != tt.world {
				t.Errorf("ScreenToWorld(%v) = %v, expected %v", tt.screen, got, tt.world)
			}
		})
	}
}

func TestViewport_ZeroValueIsIdentity(t *testing.T) {
	var v Viewport
	p := physics.Vector2D{X: 12.5, Y: -3}

	if got := v.WorldToScreen(p); got != p {
		t.Errorf("WorldToScreen(%v) = %v", p, got)
	}
	if got := v.ScreenToWorld(p); got != p {
		t.Errorf("ScreenToWorld(%v) = %v", p, got)
	}
	if got := v.Length(4); got != 4 {
		t.Errorf("Length(4) = %v", got)
	}
}

func TestViewport_RectSpace(t *testing.T) {
	v := Viewport{Scale: 2, Offset: physics.Vector2D{X: 1, Y: 1}}

	pos, w, h := v.RectSpace(physics.Rect{Left: 10, Top: 150, Width: 800, Height: 400})

	if want := (engo.Point{X: 21, Y: 301}); pos != want {
		t.Errorf("position = %v, expected %v", pos, want)
	}
	if w != 1600 || h != 800 {
		t.Errorf("size = %vx%v, expected 1600x800", w, h)
	}
}
