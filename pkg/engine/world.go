// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Defaults used when neither the configuration nor an Option sets a value.
const (
	DefaultMaxSubSteps  = 10000
	DefaultTieTolerance = 1e-9
)

var (
	// ErrInvalidConfig is returned by NewWorld for a configuration that does
	// not validate.
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrArenaTooSmall is returned when the requested bodies do not fit the
	// layout grid.
	ErrArenaTooSmall = errors.New("arena too small for requested bodies")

	// ErrInvalidLayout is returned by NewWorldFromBodies for overlapping
	// bodies, bodies crossing a wall or bodies without positive mass.
	ErrInvalidLayout = errors.New("invalid body layout")

	// ErrSubStepLimit is returned by Update when a frame needed more
	// sub-steps than the world allows.
	ErrSubStepLimit = errors.New("sub-step limit exceeded")
)

// Collision is one contact found while stepping. A is a body index; B is a
// body index for event.BallCollision and a wall index (physics.LeftWall and
// so on) for event.WallCollision. Time is relative to the start of the
// sub-step.
type Collision struct {
	Kind event.Type
	Time float64
	A    int
	B    int
}

// Stats summarizes what the world has done so far.
type Stats struct {
	Frames         uint64
	SubSteps       uint64
	LastSubSteps   int
	BallCollisions uint64
	WallCollisions uint64
	SimulatedTime  float64
	KineticEnergy  float64
	Momentum       physics.Vector2D
	Bodies         int
}

// Collisions returns the total number of resolved contacts.
func (s Stats) Collisions() uint64 {
	return s.BallCollisions + s.WallCollisions
}

// World owns a fixed set of bodies inside a rectangular arena and advances
// them with exact collision handling. A World is not safe for concurrent use.
type World struct {
	EventBus *event.Bus

	arena        physics.Rect
	walls        [4]physics.Plane
	bodies       []physics.Body
	gravity      physics.Vector2D
	maxSubSteps  int
	tieTolerance float64
	logger       *logging.Logger
	ctx          context.Context
	stats        Stats

	// reused between sub-steps
	candidates []Collision
	selected   []Collision
	deltas     []physics.Vector2D
}

// Option customizes a World at construction.
type Option func(*World)

// WithGravity sets the uniform acceleration applied to every body.
func WithGravity(g physics.Vector2D) Option {
	return func(w *World) { w.gravity = g }
}

// WithMaxSubSteps caps the number of collision sub-steps in one Update.
func WithMaxSubSteps(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.maxSubSteps = n
		}
	}
}

// WithTieTolerance sets how close two collision times must be to be
// resolved as simultaneous.
func WithTieTolerance(tol float64) Option {
	return func(w *World) {
		if tol >= 0 {
			w.tieTolerance = tol
		}
	}
}

// WithEventBus publishes collision and step limit events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(w *World) { w.EventBus = bus }
}

// WithLogger sets the logger used for step limit reports.
func WithLogger(logger *logging.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithContext sets the context whose correlation ID tags the world's logs.
func WithContext(ctx context.Context) Option {
	return func(w *World) { w.ctx = ctx }
}

// NewWorld creates a world from cfg, placing cfg.Bodies.Count bodies on a
// grid with random velocities drawn from cfg.Bodies.Seed. Options override
// the physics section of cfg.
func NewWorld(cfg *config.SimulationConfig, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "create world")
	}

	arena := ArenaFromConfig(cfg.Arena)
	bodies, err := GridLayout(arena, cfg.Bodies)
	if err != nil {
		return nil, logging.WrapError(err, "create world")
	}

	base := []Option{
		WithGravity(physics.Vector2D{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY}),
		WithMaxSubSteps(cfg.Physics.MaxSubSteps),
		WithTieTolerance(cfg.Physics.TieTolerance),
	}
	return newWorld(arena, bodies, append(base, opts...)), nil
}

// NewWorldFromBodies creates a world with explicitly placed bodies. The
// slice is copied; body indices are the slice indices.
func NewWorldFromBodies(arena physics.Rect, bodies []physics.Body, opts ...Option) (*World, error) {
	if arena.Width <= 0 || arena.Height <= 0 {
		return nil, fmt.Errorf("arena %vx%v: %w", arena.Width, arena.Height, ErrInvalidLayout)
	}
	if err := validateLayout(arena, bodies); err != nil {
		return nil, err
	}

	return newWorld(arena, append([]physics.Body(nil), bodies...), opts), nil
}

func newWorld(arena physics.Rect, bodies []physics.Body, opts []Option) *World {
	w := &World{
		arena:        arena,
		walls:        arena.Planes(),
		bodies:       bodies,
		maxSubSteps:  DefaultMaxSubSteps,
		tieTolerance: DefaultTieTolerance,
		ctx:          context.Background(),
		deltas:       make([]physics.Vector2D, len(bodies)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.EventBus == nil {
		w.EventBus = event.NewEventBus()
	}
	if w.logger == nil {
		w.logger = logging.Discard()
	}
	w.stats.Bodies = len(bodies)

	w.EventBus.Publish(&event.BaseEvent{
		EventType: event.WorldCreated,
		Source:    w,
	})
	return w
}

// validateLayout checks the construction invariants: positive mass, no
// body crossing a wall and no two bodies overlapping.
func validateLayout(arena physics.Rect, bodies []physics.Body) error {
	for i, b := range bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("body %d has mass %v: %w", i, b.Mass, ErrInvalidLayout)
		}
		if b.Radius < 0 {
			return fmt.Errorf("body %d has radius %v: %w", i, b.Radius, ErrInvalidLayout)
		}
		if !arena.ContainsCircle(b.Circle()) {
			return fmt.Errorf("body %d at %v crosses a wall: %w", i, b.Position, ErrInvalidLayout)
		}
	}

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].Circle().Overlaps(bodies[j].Circle()) {
				return fmt.Errorf("bodies %d and %d overlap: %w", i, j, ErrInvalidLayout)
			}
		}
	}
	return nil
}

// ArenaFromConfig converts the arena section of the configuration.
func ArenaFromConfig(a config.ArenaConfig) physics.Rect {
	return physics.Rect{Left: a.Left, Top: a.Top, Width: a.Width, Height: a.Height}
}

// Bodies returns a copy of the bodies in index order.
func (w *World) Bodies() []physics.Body {
	return append([]physics.Body(nil), w.bodies...)
}

// Body returns the body at index i.
func (w *World) Body(i int) physics.Body {
	return w.bodies[i]
}

// NumBodies returns the number of bodies, which never changes.
func (w *World) NumBodies() int {
	return len(w.bodies)
}

// Walls returns the four arena planes indexed by physics.LeftWall,
// physics.RightWall, physics.TopWall and physics.BottomWall.
func (w *World) Walls() [4]physics.Plane {
	return w.walls
}

// Arena returns the arena rectangle.
func (w *World) Arena() physics.Rect {
	return w.arena
}

// Gravity returns the uniform acceleration.
func (w *World) Gravity() physics.Vector2D {
	return w.gravity
}

// Stats returns counters together with the current total kinetic energy
// and momentum.
func (w *World) Stats() Stats {
	s := w.stats
	s.KineticEnergy = 0
	s.Momentum = physics.Vector2D{}
	for _, b := range w.bodies {
		s.KineticEnergy += b.KineticEnergy()
		s.Momentum = s.Momentum.Add(b.Momentum())
	}
	return s
}
