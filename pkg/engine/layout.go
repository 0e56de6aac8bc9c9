// pkg/engine/layout.go
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// GridCapacity returns the number of columns and rows of the layout grid for
// bodies of the given radius. Bodies keep one diameter of clearance from
// every wall and cells are 2*radius+spacing apart.
func GridCapacity(arena physics.Rect, radius, spacing float64) (cols, rows int) {
	pitch := 2*radius + spacing
	span := func(length float64) int {
		// centres range over length minus the clearance and one body on each side
		free := length - 6*radius
		if free < 0 || pitch <= 0 {
			return 0
		}
		return int(math.Floor(free/pitch)) + 1
	}
	return span(arena.Width), span(arena.Height)
}

// GridLayout places cfg.Count bodies row by row on the layout grid and gives
// each a velocity with a uniformly random direction and a speed drawn
// uniformly from [0, cfg.MaxSpeed]. The same seed yields the same bodies.
func GridLayout(arena physics.Rect, cfg config.BodiesConfig) ([]physics.Body, error) {
	cols, rows := GridCapacity(arena, cfg.Radius, cfg.Spacing)
	if cfg.Count > cols*rows {
		return nil, fmt.Errorf("%d bodies of radius %v need more than %dx%d cells: %w",
			cfg.Count, cfg.Radius, cols, rows, ErrArenaTooSmall)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	pitch := 2*cfg.Radius + cfg.Spacing
	origin := physics.Vector2D{
		X: arena.Left + 3*cfg.Radius,
		Y: arena.Top + 3*cfg.Radius,
	}

	bodies := make([]physics.Body, cfg.Count)
	for i := range bodies {
		col, row := i%cols, i/cols
		angle := rng.Float64() * 2 * math.Pi
		speed := rng.Float64() * cfg.MaxSpeed

		bodies[i] = physics.Body{
			Position: origin.Add(physics.Vector2D{X: float64(col) * pitch, Y: float64(row) * pitch}),
			Velocity: physics.FromAngle(angle, speed),
			Radius:   cfg.Radius,
			Mass:     cfg.Mass,
		}
	}
	return bodies, nil
}
