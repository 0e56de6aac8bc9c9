// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-ballpit/pkg/control"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// HelpText lists the scene's controls.
const HelpText = "space: pause   r: reverse   esc: quit   drag the handle to scale time"

// FormatStatus renders the status lines shown above the arena.
func FormatStatus(stats engine.Stats, paused bool) string {
	state := "running"
	if paused {
		state = "paused"
	}
	return fmt.Sprintf(
		"time %.2fs   frame %d   %s\nballs %d   ball hits %d   wall hits %d\nenergy %.1f   momentum (%.1f, %.1f)",
		stats.SimulatedTime, stats.Frames, state,
		stats.Bodies, stats.BallCollisions, stats.WallCollisions,
		stats.KineticEnergy, stats.Momentum.X, stats.Momentum.Y,
	)
}

// FormatTimeScale renders the label next to the time slider.
func FormatTimeScale(scale float64) string {
	return fmt.Sprintf("x%+.2f", scale)
}

// HUDSystem draws the status text, the help line and the time slider.
type HUDSystem struct {
	runner  *engine.Runner
	slider  *control.Slider
	font    *common.Font
	palette Palette

	viewport Viewport

	status  string
	scale   string
	warning string

	statusText *shape
	scaleText  *shape
	warnText   *shape
	helpText   *shape
	track      *shape
	handle     *shape

	bus  *event.Bus
	subs map[event.Type]event.SubscriptionID
}

// NewHUDSystem creates a HUD for runner. A nil font disables text.
func NewHUDSystem(runner *engine.Runner, slider *control.Slider, font *common.Font, palette Palette) *HUDSystem {
	hud := &HUDSystem{
		runner:   runner,
		slider:   slider,
		font:     font,
		palette:  palette,
		viewport: Viewport{Scale: 1},
		scale:    FormatTimeScale(runner.TimeScale()),
		bus:      runner.World().EventBus,
		subs:     make(map[event.Type]event.SubscriptionID),
	}

	hud.subs[event.TimeScaleChanged] = hud.bus.Subscribe(event.TimeScaleChanged, func(e event.Event) {
		if ts, ok := e.(*event.TimeScaleEvent); ok {
			hud.slider.SetValue(ts.Scale)
			hud.scale = FormatTimeScale(ts.Scale)
		}
	})
	hud.subs[event.SubStepLimitExceeded] = hud.bus.Subscribe(event.SubStepLimitExceeded, func(e event.Event) {
		if sl, ok := e.(*event.StepLimitEvent); ok {
			hud.warning = fmt.Sprintf("stopped after %d sub-steps with %.3fs left", sl.SubSteps, sl.Remaining)
		}
	})

	return hud
}

// Initialize creates the HUD entities in rs.
func (hud *HUDSystem) Initialize(rs *common.RenderSystem, viewport Viewport) {
	hud.viewport = viewport

	add := func(s *shape) *shape {
		if rs != nil {
			rs.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
		}
		return s
	}

	hud.track = add(newShape(common.Rectangle{}, hud.palette.SliderTrack))
	hud.handle = add(newShape(common.Rectangle{}, hud.palette.SliderHandle))

	if hud.font != nil {
		hud.statusText = add(hud.newText(hud.status, hud.palette.Text, 10, 10))
		hud.helpText = add(hud.newText(HelpText, hud.palette.Text, 10, 106))
		hud.scaleText = add(hud.newText(hud.scale, hud.palette.Text, hud.slider.Position.X+hud.slider.Size.X+20, hud.slider.Position.Y-6))
		hud.warnText = add(hud.newText(hud.warning, hud.palette.Warning, 10, 126))
	}

	hud.layoutSlider()
}

func (hud *HUDSystem) newText(text string, c color.Color, x, y float64) *shape {
	s := newShape(common.Text{Font: hud.font, Text: text}, c)
	s.Position = hud.viewport.Point(physics.Vector2D{X: x, Y: y})
	return s
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the HUD entities
func (hud *HUDSystem) Update(dt float32) {
	hud.layoutSlider()
	hud.setText(hud.statusText, hud.status)
	hud.setText(hud.scaleText, hud.scale)
	hud.setText(hud.warnText, hud.warning)
}

func (hud *HUDSystem) setText(s *shape, text string) {
	if s == nil {
		return
	}
	if t, ok := s.Drawable.(common.Text); ok && t.Text != text {
		t.Text = text
		s.Drawable = t
	}
}

func (hud *HUDSystem) layoutSlider() {
	track := physics.Rect{
		Left:   hud.slider.Position.X,
		Top:    hud.slider.Position.Y,
		Width:  hud.slider.Size.X,
		Height: hud.slider.Size.Y,
	}
	if hud.track != nil {
		hud.track.Position, hud.track.Width, hud.track.Height = hud.viewport.RectSpace(track)
	}
	if hud.handle != nil {
		hud.handle.Position, hud.handle.Width, hud.handle.Height = hud.viewport.RectSpace(hud.slider.HandleRect())
	}
}

// SetStatus records the statistics shown on the next update.
func (hud *HUDSystem) SetStatus(stats engine.Stats, timeScale float64) {
	hud.status = FormatStatus(stats, hud.runner.Paused())
	hud.scale = FormatTimeScale(timeScale)
}

// Status returns the current status text.
func (hud *HUDSystem) Status() string {
	return hud.status
}

// Warning returns the last sub-step limit warning, if any.
func (hud *HUDSystem) Warning() string {
	return hud.warning
}

// Close drops the HUD's event subscriptions.
func (hud *HUDSystem) Close() {
	for t, id := range hud.subs {
		hud.bus.Unsubscribe(t, id)
	}
	clear(hud.subs)
}
