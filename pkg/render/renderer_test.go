// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

var (
	_ engine.Renderer = (*NullRenderer)(nil)
	_ engine.Renderer = (*TerminalRenderer)(nil)
)

// captureLog runs f against a debug level NullRenderer and returns the log.
func captureLog(t *testing.T, f func(r *NullRenderer)) string {
	t.Helper()
	t.Setenv(logging.LevelEnvVar, "DEBUG")

	var buf bytes.Buffer
	f(NewNullRenderer(logging.NewLoggerWithWriter(&buf)))
	return buf.String()
}

func TestNullRenderer_LogsEveryCall(t *testing.T) {
	tests := []struct {
		name     string
		call     func(r *NullRenderer)
		contains []string
	}{
		{
			name:     "clear",
			call:     func(r *NullRenderer) { r.Clear() },
			contains: []string{"Clear called"},
		},
		{
			name:     "present",
			call:     func(r *NullRenderer) { r.Present() },
			contains: []string{"Present called"},
		},
		{
			name:     "arena",
			call:     func(r *NullRenderer) { r.RenderArena(physics.Rect{Left: 10, Top: 150, Width: 800, Height: 800}) },
			contains: []string{"RenderArena called", `"width":800`},
		},
		{
			name: "body",
			call: func(r *NullRenderer) {
				r.RenderBody(7, physics.Body{Position: physics.Vector2D{X: 1.5, Y: 2}, Radius: 16, Mass: 1})
			},
			contains: []string{"RenderBody called", `"body":7`, `"x":1.5`},
		},
		{
			name: "status",
			call: func(r *NullRenderer) {
				r.RenderStatus(engine.Stats{Frames: 12, BallCollisions: 2, WallCollisions: 1}, -0.5)
			},
			contains: []string{"RenderStatus called", `"frames":12`, `"collisions":3`, `"time_scale":-0.5`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLog(t, tt.call)
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("Expected log to contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestNullRenderer_SilentAtInfoLevel(t *testing.T) {
	t.Setenv(logging.LevelEnvVar, "INFO")

	var buf bytes.Buffer
	r := NewNullRenderer(logging.NewLoggerWithWriter(&buf))
	r.Clear()
	r.Present()

	if buf.Len() != 0 {
		t.Errorf("Expected no output at info level, got: %s", buf.String())
	}
}
