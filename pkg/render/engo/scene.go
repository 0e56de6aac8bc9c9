// pkg/render/engo/scene.go
package engo

import (
	"context"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/control"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// fontSize is the HUD text size in points.
const fontSize = 14

// PhysicsSystem advances the runner by one frame per engo update. The
// first stepper failure stops the scene.
type PhysicsSystem struct {
	runner *engine.Runner
	logger *logging.Logger
	exit   func()

	mu  sync.Mutex
	err error
}

// NewPhysicsSystem creates a system stepping runner.
func NewPhysicsSystem(runner *engine.Runner, logger *logging.Logger) *PhysicsSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &PhysicsSystem{
		runner: runner,
		logger: logger,
		exit:   engo.Exit,
	}
}

// Remove satisfies the ecs.System interface
func (ps *PhysicsSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the world by one fixed frame. Engo's frame time is ignored
// so that a run does not depend on the display.
func (ps *PhysicsSystem) Update(dt float32) {
	if ps.Err() != nil {
		return
	}

	if err := ps.runner.Step(); err != nil {
		ps.logger.Error(context.Background(), "Simulation failed", err,
			"frames", ps.runner.Health().Frames,
		)
		ps.mu.Lock()
		ps.err = err
		ps.mu.Unlock()
		if ps.exit != nil {
			ps.exit()
		}
	}
}

// Err returns the error that stopped the simulation, if any.
func (ps *PhysicsSystem) Err() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.err
}

// BallScene shows a running world in an engo window
type BallScene struct {
	runner  *engine.Runner
	display config.DisplayConfig
	logger  *logging.Logger
	palette Palette

	renderer *EngoRenderer
	slider   *control.Slider
	physics  *PhysicsSystem
	input    *InputSystem
	hud      *HUDSystem
	font     *common.Font
}

// NewBallScene creates a scene running world with the display settings.
// Bodies are shaded up to maxSpeed.
func NewBallScene(world *engine.World, display config.DisplayConfig, maxSpeed float64, logger *logging.Logger) *BallScene {
	if logger == nil {
		logger = logging.Discard()
	}

	palette := DefaultPalette()
	renderer := NewEngoRenderer(palette, maxSpeed)
	runner := engine.NewRunner(world, renderer, display, logger)

	slider := control.NewTimeSlider(display.TimeScaleMin, display.TimeScaleMax, runner.TimeScale())
	slider.OnChange(runner.SetTimeScale)

	return &BallScene{
		runner:   runner,
		display:  display,
		logger:   logger,
		palette:  palette,
		renderer: renderer,
		slider:   slider,
		physics:  NewPhysicsSystem(runner, logger),
	}
}

// Type returns the scene type (required by Engo)
func (scene *BallScene) Type() string {
	return "BallScene"
}

// Preload loads the HUD font (required by Engo). Without it the scene runs
// with the text hidden.
func (scene *BallScene) Preload() {
	font, err := LoadFont(fontSize, scene.palette.Text)
	if err != nil {
		scene.logger.Warn(context.Background(), "HUD text disabled", "error", err.Error())
		return
	}
	scene.font = font
}

// Setup is called when the scene starts (required by Engo)
func (scene *BallScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(scene.palette.Background)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	SetupInputBindings()
	viewport := FitViewport(scene.Content(), float64(engo.GameWidth()), float64(engo.GameHeight()))

	scene.hud = NewHUDSystem(scene.runner, scene.slider, scene.font, scene.palette)
	scene.hud.Initialize(renderSystem, viewport)
	scene.renderer.Initialize(renderSystem, viewport, scene.hud)
	scene.input = NewInputSystem(scene.runner, scene.slider, viewport)

	world.AddSystem(scene.input)
	world.AddSystem(scene.physics)
	world.AddSystem(scene.hud)

	scene.runner.Draw()
	scene.runner.SetRunning(true)
	scene.logger.Info(context.Background(), "Scene ready",
		"bodies", scene.runner.World().NumBodies(),
		"viewport_scale", viewport.Scale,
	)
}

// Content returns the world area shown in the window: the arena with an
// equal margin on the right and below, and the HUD above it.
func (scene *BallScene) Content() physics.Rect {
	arena := scene.runner.World().Arena()
	margin := max(arena.Left, 0)
	return physics.Rect{
		Left:   0,
		Top:    0,
		Width:  arena.Right() + margin,
		Height: arena.Bottom() + margin,
	}
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *BallScene) Exit() {
	scene.runner.SetRunning(false)
	if scene.hud != nil {
		scene.hud.Close()
	}
	scene.logger.Info(context.Background(), "Window closed",
		"frames", scene.runner.Health().Frames,
	)
}

// Runner returns the runner driving the scene.
func (scene *BallScene) Runner() *engine.Runner {
	return scene.runner
}

// Err returns the error that stopped the simulation, if any.
func (scene *BallScene) Err() error {
	return scene.physics.Err()
}

// Run opens a window and shows scene until it is closed. It returns the
// stepper error that closed the window, if any.
func Run(scene *BallScene, title string) error {
	engo.Run(engo.RunOptions{
		Title:    title,
		Width:    scene.display.WindowWidth,
		Height:   scene.display.WindowHeight,
		FPSLimit: scene.display.FrameRate,
		VSync:    true,
	}, scene)
	return scene.Err()
}
