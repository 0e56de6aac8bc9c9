// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"
)

// fontURL is the name the embedded Go font is registered under.
const fontURL = "goregular.ttf"

// Palette holds the colours of the scene.
type Palette struct {
	Background   color.RGBA
	Wall         color.RGBA
	Text         color.RGBA
	Warning      color.RGBA
	SliderTrack  color.RGBA
	SliderHandle color.RGBA
	// Bodies are shaded from Slow at rest to Fast at the configured maximum
	// speed and beyond.
	Slow color.RGBA
	Fast color.RGBA
}

// DefaultPalette returns a light palette close to the original demo.
func DefaultPalette() Palette {
	return Palette{
		Background:   color.RGBA{255, 255, 255, 255},
		Wall:         color.RGBA{0, 0, 0, 255},
		Text:         color.RGBA{0, 0, 0, 255},
		Warning:      color.RGBA{200, 0, 0, 255},
		SliderTrack:  color.RGBA{160, 160, 160, 255},
		SliderHandle: color.RGBA{60, 60, 60, 255},
		Slow:         color.RGBA{40, 80, 220, 255},
		Fast:         color.RGBA{230, 40, 40, 255},
	}
}

// BodyColor shades a body by its speed relative to maxSpeed.
func (p Palette) BodyColor(speed, maxSpeed float64) color.RGBA {
	f := 1.0
	if maxSpeed > 0 {
		f = speed / maxSpeed
	}
	f = max(0, min(1, f))

	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
	}
	return color.RGBA{
		R: lerp(p.Slow.R, p.Fast.R),
		G: lerp(p.Slow.G, p.Fast.G),
		B: lerp(p.Slow.B, p.Fast.B),
		A: lerp(p.Slow.A, p.Fast.A),
	}
}

// LoadFont registers the embedded Go regular font with engo and prepares it
// for text drawing.
func LoadFont(size float64, fg color.Color) (*common.Font, error) {
	if err := engo.Files.LoadReaderData(fontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	font := &common.Font{
		URL:  fontURL,
		FG:   fg,
		Size: size,
	}
	if err := font.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("failed to prepare font: %w", err)
	}
	return font, nil
}
