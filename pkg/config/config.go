// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Renderer names accepted by DisplayConfig.Renderer.
const (
	RendererNull     = "null"
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
)

// ErrInvalidConfig is matched by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// SimulationConfig contains configuration for a ballpit run
type SimulationConfig struct {
	Arena   ArenaConfig   `json:"arena"`
	Bodies  BodiesConfig  `json:"bodies"`
	Physics PhysicsConfig `json:"physics"`
	Display DisplayConfig `json:"display"`
	Health  HealthConfig  `json:"health"`
}

// ArenaConfig is the axis-aligned box that contains the bodies. Y grows
// downward.
type ArenaConfig struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BodiesConfig controls the initial random layout
type BodiesConfig struct {
	Count    int     `json:"count"`
	Radius   float64 `json:"radius"`
	Mass     float64 `json:"mass"`
	MaxSpeed float64 `json:"maxSpeed"`
	Spacing  float64 `json:"spacing"`
	Seed     uint64  `json:"seed"`
}

// PhysicsConfig contains stepper tuning
type PhysicsConfig struct {
	GravityX     float64 `json:"gravityX"`
	GravityY     float64 `json:"gravityY"`
	MaxSubSteps  int     `json:"maxSubSteps"`
	TieTolerance float64 `json:"tieTolerance"`
}

// DisplayConfig selects the renderer and frame pacing
type DisplayConfig struct {
	Renderer     string  `json:"renderer"`
	FrameRate    int     `json:"frameRate"`
	TimeScale    float64 `json:"timeScale"`
	TimeScaleMin float64 `json:"timeScaleMin"`
	TimeScaleMax float64 `json:"timeScaleMax"`
	WindowWidth  int     `json:"windowWidth"`
	WindowHeight int     `json:"windowHeight"`
}

// HealthConfig configures the optional health endpoint; an empty address
// disables it.
type HealthConfig struct {
	Address string `json:"address"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// LoadConfig loads a configuration from a file. Fields missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*SimulationConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the demo configuration: forty balls in an 800x800
// arena whose top edge leaves room for the time scale slider.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Arena: ArenaConfig{
			Left:   10,
			Top:    150,
			Width:  800,
			Height: 800,
		},
		Bodies: BodiesConfig{
			Count:    40,
			Radius:   16,
			Mass:     1,
			MaxSpeed: 200,
			Spacing:  8,
			Seed:     1,
		},
		Physics: PhysicsConfig{
			GravityX:     0,
			GravityY:     0,
			MaxSubSteps:  10000,
			TieTolerance: 1e-9,
		},
		Display: DisplayConfig{
			Renderer:     RendererEngo,
			FrameRate:    60,
			TimeScale:    1,
			TimeScaleMin: -1,
			TimeScaleMax: 1,
			WindowWidth:  820,
			WindowHeight: 960,
		},
	}
}

// Validate checks the configuration for values the simulation cannot run
// with. The returned error is a *ValidationError.
func (c *SimulationConfig) Validate() error {
	switch {
	case c.Arena.Width <= 0:
		return &ValidationError{Field: "arena.width", Value: c.Arena.Width, Message: "must be positive"}
	case c.Arena.Height <= 0:
		return &ValidationError{Field: "arena.height", Value: c.Arena.Height, Message: "must be positive"}
	case c.Bodies.Count < 0:
		return &ValidationError{Field: "bodies.count", Value: c.Bodies.Count, Message: "must not be negative"}
	case c.Bodies.Radius <= 0:
		return &ValidationError{Field: "bodies.radius", Value: c.Bodies.Radius, Message: "must be positive"}
	case c.Bodies.Mass <= 0:
		return &ValidationError{Field: "bodies.mass", Value: c.Bodies.Mass, Message: "must be positive"}
	case c.Bodies.MaxSpeed < 0:
		return &ValidationError{Field: "bodies.maxSpeed", Value: c.Bodies.MaxSpeed, Message: "must not be negative"}
	case c.Bodies.Spacing <= 0:
		return &ValidationError{Field: "bodies.spacing", Value: c.Bodies.Spacing, Message: "must be positive"}
	case c.Physics.MaxSubSteps <= 0:
		return &ValidationError{Field: "physics.maxSubSteps", Value: c.Physics.MaxSubSteps, Message: "must be positive"}
	case c.Physics.TieTolerance < 0:
		return &ValidationError{Field: "physics.tieTolerance", Value: c.Physics.TieTolerance, Message: "must not be negative"}
	case c.Display.FrameRate <= 0:
		return &ValidationError{Field: "display.frameRate", Value: c.Display.FrameRate, Message: "must be positive"}
	case c.Display.TimeScaleMin >= c.Display.TimeScaleMax:
		return &ValidationError{Field: "display.timeScaleMin", Value: c.Display.TimeScaleMin, Message: "must be below timeScaleMax"}
	case c.Display.TimeScale < c.Display.TimeScaleMin || c.Display.TimeScale > c.Display.TimeScaleMax:
		return &ValidationError{Field: "display.timeScale", Value: c.Display.TimeScale, Message: "must lie within [timeScaleMin, timeScaleMax]"}
	}

	switch c.Display.Renderer {
	case RendererNull, RendererTerminal, RendererEngo:
	default:
		return &ValidationError{Field: "display.renderer", Value: c.Display.Renderer, Message: "must be one of null, terminal, engo"}
	}

	return nil
}
