// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-ballpit/pkg/control"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Button names registered by SetupInputBindings.
const (
	ButtonPause   = "pause"
	ButtonReverse = "reverse"
	ButtonQuit    = "quit"
)

// InputSystem turns keyboard and mouse input into runner and slider calls.
type InputSystem struct {
	runner   *engine.Runner
	slider   *control.Slider
	viewport Viewport
	exit     func()
}

// NewInputSystem creates a new input system
func NewInputSystem(runner *engine.Runner, slider *control.Slider, viewport Viewport) *InputSystem {
	return &InputSystem{
		runner:   runner,
		slider:   slider,
		viewport: viewport,
		exit:     engo.Exit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes the input of one engo frame
func (is *InputSystem) Update(dt float32) {
	is.handleKeys(
		engo.Input.Button(ButtonPause).JustPressed(),
		engo.Input.Button(ButtonReverse).JustPressed(),
		engo.Input.Button(ButtonQuit).JustPressed(),
	)

	m := engo.Input.Mouse
	is.handleMouse(m.Action, m.Button, float64(m.X), float64(m.Y))
}

func (is *InputSystem) handleKeys(pause, reverse, quit bool) {
	if pause {
		is.runner.TogglePause()
	}
	if reverse {
		is.runner.Reverse()
	}
	if quit && is.exit != nil {
		is.exit()
	}
}

// handleMouse forwards a mouse action at screen position (x, y) to the
// slider. Only the left button grabs the handle.
func (is *InputSystem) handleMouse(action engo.Action, button engo.MouseButton, x, y float64) {
	p := is.viewport.ScreenToWorld(physics.Vector2D{X: x, Y: y})

	switch action {
	case engo.Press:
		if button == engo.MouseButtonLeft {
			is.slider.MouseDown(p.X, p.Y)
		}
	case engo.Release:
		is.slider.MouseUp(p.X, p.Y)
	case engo.Move:
		is.slider.MouseMoved(p.X, p.Y)
	}
}

// SetupInputBindings registers the scene's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace)
	engo.Input.RegisterButton(ButtonReverse, engo.KeyR)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape)
}
