package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

var terminalArena = physics.Rect{Left: 10, Top: 150, Width: 800, Height: 800}

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "small_renderer", width: 10, height: 5, wantWidth: 10, wantHeight: 5},
		{name: "medium_renderer", width: 80, height: 24, wantWidth: 80, wantHeight: 24},
		{name: "degenerate_renderer", width: 0, height: -3, wantWidth: 1, wantHeight: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(&bytes.Buffer{}, tt.width, tt.height)

			if renderer.width != tt.wantWidth || renderer.height != tt.wantHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, renderer.width, renderer.height)
			}
			if len(renderer.buffer) != tt.wantHeight {
				t.Errorf("expected buffer height %d, got %d", tt.wantHeight, len(renderer.buffer))
			}
			for i, row := range renderer.buffer {
				if len(row) != tt.wantWidth {
					t.Errorf("row %d: expected width %d, got %d", i, tt.wantWidth, len(row))
				}
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	renderer := NewTerminalRenderer(&bytes.Buffer{}, 40, 20)
	renderer.RenderArena(terminalArena)

	tests := []struct {
		name  string
		pos   physics.Vector2D
		wantX int
		wantY int
	}{
		{name: "top_left_corner", pos: physics.Vector2D{X: 10, Y: 150}, wantX: 0, wantY: 0},
		{name: "centre", pos: physics.Vector2D{X: 410, Y: 550}, wantX: 20, wantY: 10},
		{name: "last_cell", pos: physics.Vector2D{X: 809, Y: 949}, wantX: 39, wantY: 19},
		{name: "left_of_arena", pos: physics.Vector2D{X: 0, Y: 550}, wantX: -1, wantY: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := renderer.worldToScreen(tt.pos)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("worldToScreen(%v) = (%d, %d), expected (%d, %d)", tt.pos, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTerminalRenderer_RenderBody(t *testing.T) {
	renderer := NewTerminalRenderer(&bytes.Buffer{}, 40, 20)
	renderer.Clear()
	renderer.RenderArena(terminalArena)

	// cells are 20x40 units, so the disc spans several of them
	renderer.RenderBody(0, physics.Body{Position: physics.Vector2D{X: 410, Y: 550}, Radius: 40, Mass: 1})

	if got := renderer.buffer[10][20]; got != 'o' {
		t.Errorf("expected centre marker at (20, 10), got %q", got)
	}
	if got := renderer.buffer[10][19]; got != '.' {
		t.Errorf("expected disc fill at (19, 10), got %q", got)
	}
	if got := renderer.buffer[0][0]; got != ' ' {
		t.Errorf("expected empty corner, got %q", got)
	}

	// bodies outside the grid are clipped
	renderer.RenderBody(1, physics.Body{Position: physics.Vector2D{X: -500, Y: -500}, Radius: 16, Mass: 1})
}

func TestTerminalRenderer_Present(t *testing.T) {
	var out bytes.Buffer
	renderer := NewTerminalRenderer(&out, 8, 4)
	renderer.Clear()
	renderer.RenderArena(terminalArena)
	renderer.RenderBody(0, physics.Body{Position: physics.Vector2D{X: 60, Y: 200}, Radius: 1, Mass: 1})
	renderer.RenderStatus(engine.Stats{SimulatedTime: 1.5, Bodies: 1, WallCollisions: 4, KineticEnergy: 12}, -1)
	renderer.Present()

	output := out.String()
	if !strings.HasPrefix(output, "\033[H\033[2J") {
		t.Error("expected output to start by clearing the screen")
	}

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(output, "\033[H\033[2J"), "\n"), "\n")
	if len(lines) != 4+3 {
		t.Fatalf("expected 7 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "+--------+" || lines[5] != "+--------+" {
		t.Errorf("unexpected borders %q and %q", lines[0], lines[5])
	}
	if lines[1] != "|o       |" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if want := "t=1.50s scale=-1.00 bodies=1 collisions=4 energy=12.0"; lines[6] != want {
		t.Errorf("status line = %q, expected %q", lines[6], want)
	}
}

func TestTerminalSize_NonTerminalUsesDefaults(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	for _, file := range []*os.File{nil, f} {
		w, h := TerminalSize(file)
		if w != DefaultTerminalWidth-2 || h != DefaultTerminalHeight-3 {
			t.Errorf("TerminalSize = %dx%d, expected %dx%d", w, h, DefaultTerminalWidth-2, DefaultTerminalHeight-3)
		}
	}
}

func TestTerminalRenderer_RawModeUsesCRLF(t *testing.T) {
	var out bytes.Buffer
	renderer := NewTerminalRenderer(&out, 3, 1)
	renderer.SetRawMode(true)
	renderer.Clear()
	renderer.Present()

	if want := "\033[H\033[2J+---+\r\n|   |\r\n+---+\r\n\r\n"; out.String() != want {
		t.Errorf("Present() wrote %q, expected %q", out.String(), want)
	}
}
