package engo

import (
	"image/color"
	"testing"
)

func TestPalette_BodyColor(t *testing.T) {
	p := DefaultPalette()

	tests := []struct {
		name     string
		speed    float64
		maxSpeed float64
		want     color.RGBA
	}{
		{name: "at_rest", speed: 0, maxSpeed: 200, want: p.Slow},
		{name: "max_speed", speed: 200, maxSpeed: 200, want: p.Fast},
		{name: "faster_than_max", speed: 450, maxSpeed: 200, want: p.Fast},
		{name: "no_max_speed", speed: 3, maxSpeed: 0, want: p.Fast},
		{name: "half_way", speed: 100, maxSpeed: 200, want: color.RGBA{R: 135, G: 60, B: 130, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.BodyColor(tt.speed, tt.maxSpeed); got != tt.want {
				t.Errorf("BodyColor(%v, %v) = %v, expected %v", tt.speed, tt.maxSpeed, got, tt.want)
			}
		})
	}
}
