// pkg/engine/runner.go
package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Renderer draws one frame of the world. Calls arrive in the order Clear,
// RenderArena, RenderBody for every body, RenderStatus, Present.
type Renderer interface {
	Clear()
	RenderArena(arena physics.Rect)
	RenderBody(index int, body physics.Body)
	RenderStatus(stats Stats, timeScale float64)
	Present()
}

// Snapshot is the runner state published for health checks.
type Snapshot struct {
	Frames    uint64
	LastFrame time.Time
	Running   bool
	Err       error
}

// Runner drives a World at a fixed frame rate. The world and the renderer
// are only touched from the goroutine calling Run or Step; the time scale
// and pause flag may be changed from anywhere.
type Runner struct {
	world    *World
	renderer Renderer
	logger   *logging.Logger

	interval  time.Duration
	frameDt   float64
	minScale  float64
	maxScale  float64
	maxFrames uint64

	timeScale atomic.Uint64
	paused    atomic.Bool
	snapshot  atomic.Pointer[Snapshot]
}

// NewRunner creates a runner stepping world by 1/FrameRate seconds of wall
// time per frame, scaled by the current time scale.
func NewRunner(world *World, renderer Renderer, display config.DisplayConfig, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	frameRate := display.FrameRate
	if frameRate <= 0 {
		frameRate = 60
	}

	r := &Runner{
		world:    world,
		renderer: renderer,
		logger:   logger,
		interval: time.Second / time.Duration(frameRate),
		frameDt:  1 / float64(frameRate),
		minScale: display.TimeScaleMin,
		maxScale: display.TimeScaleMax,
	}
	if r.minScale >= r.maxScale {
		r.minScale, r.maxScale = math.Inf(-1), math.Inf(1)
	}
	r.timeScale.Store(math.Float64bits(r.clamp(display.TimeScale)))
	r.snapshot.Store(&Snapshot{})
	return r
}

// SetMaxFrames makes Run return after n frames; zero means no limit.
func (r *Runner) SetMaxFrames(n uint64) {
	r.maxFrames = n
}

// World returns the world being run.
func (r *Runner) World() *World {
	return r.world
}

// FrameDuration returns the simulated seconds of one frame at scale 1.
func (r *Runner) FrameDuration() float64 {
	return r.frameDt
}

// TimeScale returns the factor applied to each frame's duration.
func (r *Runner) TimeScale() float64 {
	return math.Float64frombits(r.timeScale.Load())
}

// SetTimeScale clamps scale to the configured range, stores it and
// announces it on the world's event bus. Negative values run time backward.
func (r *Runner) SetTimeScale(scale float64) {
	scale = r.clamp(scale)
	if math.Float64bits(scale) == r.timeScale.Swap(math.Float64bits(scale)) {
		return
	}
	r.world.EventBus.Publish(event.NewTimeScaleEvent(r, scale))
}

// Reverse flips the direction of time.
func (r *Runner) Reverse() {
	r.SetTimeScale(-r.TimeScale())
}

// SetPaused stops or resumes the simulation; frames keep being drawn.
func (r *Runner) SetPaused(paused bool) {
	r.paused.Store(paused)
}

// TogglePause flips the pause flag and returns the new state.
func (r *Runner) TogglePause() bool {
	for {
		old := r.paused.Load()
		if r.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Paused reports whether the simulation is paused.
func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// SetRunning records whether a loop other than Run, such as a window's
// frame callback, is driving Step.
func (r *Runner) SetRunning(running bool) {
	r.publish(func(s *Snapshot) { s.Running = running })
}

// Health returns the latest runner snapshot.
func (r *Runner) Health() Snapshot {
	return *r.snapshot.Load()
}

func (r *Runner) clamp(scale float64) float64 {
	return math.Max(r.minScale, math.Min(r.maxScale, scale))
}

// Run steps and draws frames until ctx is done, the frame limit is reached
// or the world fails. A context cancellation is not an error.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info(ctx, "Simulation started",
		"bodies", r.world.NumBodies(),
		"frame_interval", r.interval.String(),
		"time_scale", r.TimeScale(),
	)
	r.SetRunning(true)
	defer r.SetRunning(false)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "Simulation stopped", "frames", r.world.Stats().Frames)
			return nil
		case <-ticker.C:
			if err := r.Step(); err != nil {
				r.logger.Error(ctx, "Simulation failed", err)
				return err
			}
			if r.maxFrames > 0 && r.Health().Frames >= r.maxFrames {
				r.logger.Info(ctx, "Frame limit reached", "frames", r.maxFrames)
				return nil
			}
		}
	}
}

// Step advances the world by one frame and draws it.
func (r *Runner) Step() error {
	dt := 0.0
	if !r.paused.Load() {
		dt = r.frameDt * r.TimeScale()
	}

	if err := r.world.Update(dt); err != nil {
		r.publish(func(s *Snapshot) { s.Err = err })
		return err
	}

	r.Draw()
	r.publish(func(s *Snapshot) {
		s.Frames++
		s.LastFrame = time.Now()
	})
	return nil
}

// Draw renders the current state without advancing it.
func (r *Runner) Draw() {
	if r.renderer == nil {
		return
	}
	r.renderer.Clear()
	r.renderer.RenderArena(r.world.Arena())
	for i := 0; i < r.world.NumBodies(); i++ {
		r.renderer.RenderBody(i, r.world.Body(i))
	}
	r.renderer.RenderStatus(r.world.Stats(), r.TimeScale())
	r.renderer.Present()
}

// publish replaces the snapshot with a modified copy.
func (r *Runner) publish(update func(*Snapshot)) {
	next := *r.snapshot.Load()
	update(&next)
	r.snapshot.Store(&next)
}
