// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// wallWidth is the border width of the arena outline in pixels.
const wallWidth = 2

// shape is an entity drawn by the render system.
type shape struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newShape(drawable common.Drawable, c color.Color) *shape {
	return &shape{
		BasicEntity: ecs.NewBasic(),
		RenderComponent: common.RenderComponent{
			Drawable: drawable,
			Color:    c,
			Scale:    engo.Point{X: 1, Y: 1},
		},
	}
}

// EngoRenderer implements engine.Renderer by keeping one engo entity per
// body in sync with the world. Entities are created on first use.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	viewport     Viewport
	palette      Palette
	maxSpeed     float64
	hud          *HUDSystem

	arena  *shape
	bodies []*shape
	drawn  int
}

// NewEngoRenderer creates a renderer shading bodies up to maxSpeed.
func NewEngoRenderer(palette Palette, maxSpeed float64) *EngoRenderer {
	return &EngoRenderer{
		viewport: Viewport{Scale: 1},
		palette:  palette,
		maxSpeed: maxSpeed,
	}
}

// Initialize attaches the renderer to a render system. Without one the
// entities are still kept up to date but never drawn.
func (r *EngoRenderer) Initialize(rs *common.RenderSystem, viewport Viewport, hud *HUDSystem) {
	r.renderSystem = rs
	r.viewport = viewport
	r.hud = hud
}

func (r *EngoRenderer) add(s *shape) {
	if r.renderSystem != nil {
		r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

// Clear implements engine.Renderer. Engo clears the screen itself.
func (r *EngoRenderer) Clear() {
	r.drawn = 0
}

// RenderArena implements engine.Renderer
func (r *EngoRenderer) RenderArena(arena physics.Rect) {
	if r.arena == nil {
		r.arena = newShape(common.Rectangle{BorderWidth: wallWidth, BorderColor: r.palette.Wall}, color.Transparent)
		r.add(r.arena)
	}
	r.arena.Position, r.arena.Width, r.arena.Height = r.viewport.RectSpace(arena)
}

// RenderBody implements engine.Renderer
func (r *EngoRenderer) RenderBody(index int, body physics.Body) {
	for len(r.bodies) <= index {
		s := newShape(common.Circle{}, r.palette.Slow)
		r.bodies = append(r.bodies, s)
		r.add(s)
	}

	s := r.bodies[index]
	s.Position = r.viewport.Point(body.Position.Sub(physics.Vector2D{X: body.Radius, Y: body.Radius}))
	s.Width = r.viewport.Length(2 * body.Radius)
	s.Height = s.Width
	s.Color = r.palette.BodyColor(body.Velocity.Length(), r.maxSpeed)
	s.Hidden = false
	r.drawn = max(r.drawn, index+1)
}

// RenderStatus implements engine.Renderer
func (r *EngoRenderer) RenderStatus(stats engine.Stats, timeScale float64) {
	if r.hud != nil {
		r.hud.SetStatus(stats, timeScale)
	}
}

// Present implements engine.Renderer. Bodies not drawn this frame are
// hidden.
func (r *EngoRenderer) Present() {
	for _, s := range r.bodies[r.drawn:] {
		s.Hidden = true
	}
}
