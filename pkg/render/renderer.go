// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// NullRenderer is an engine.Renderer that only logs at debug level. It is
// used for headless runs.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger,
	}
}

// Clear implements engine.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// RenderArena implements engine.Renderer.
func (d *NullRenderer) RenderArena(arena physics.Rect) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderArena called",
		"left", arena.Left,
		"top", arena.Top,
		"width", arena.Width,
		"height", arena.Height,
	)
}

// RenderBody implements engine.Renderer.
func (d *NullRenderer) RenderBody(index int, body physics.Body) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderBody called",
		"body", index,
		"x", body.Position.X,
		"y", body.Position.Y,
		"vx", body.Velocity.X,
		"vy", body.Velocity.Y,
	)
}

// RenderStatus implements engine.Renderer.
func (d *NullRenderer) RenderStatus(stats engine.Stats, timeScale float64) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderStatus called",
		"frames", stats.Frames,
		"sub_steps", stats.LastSubSteps,
		"collisions", stats.Collisions(),
		"simulated_time", stats.SimulatedTime,
		"kinetic_energy", stats.KineticEnergy,
		"time_scale", timeScale,
	)
}

// Present implements engine.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}
