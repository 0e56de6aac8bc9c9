package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/physics"
)

// Fallback dimensions used when the output is not a terminal.
const (
	DefaultTerminalWidth  = 80
	DefaultTerminalHeight = 24
)

// TerminalSize returns the character grid available for the arena on f:
// the terminal size minus the border and status lines. Non-terminals get the
// default 80x24 screen.
func TerminalSize(f *os.File) (width, height int) {
	width, height = DefaultTerminalWidth, DefaultTerminalHeight
	if f != nil && term.IsTerminal(int(f.Fd())) {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			width, height = w, h
		}
	}
	// two border columns; two border rows and one status row
	return max(width-2, 1), max(height-3, 1)
}

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	out    io.Writer
	width  int
	height int
	buffer [][]rune
	arena  physics.Rect
	status string
	eol    string
}

// NewTerminalRenderer creates a new terminal renderer drawing a width x
// height character grid to out.
func NewTerminalRenderer(out io.Writer, width, height int) *TerminalRenderer {
	width, height = max(width, 1), max(height, 1)
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		eol:    "\n",
	}
}

// SetRawMode makes Present end lines with CRLF, which a terminal in raw
// mode needs to return to the first column.
func (r *TerminalRenderer) SetRawMode(raw bool) {
	r.eol = "\n"
	if raw {
		r.eol = "\r\n"
	}
}

// worldToScreen maps a point of the arena onto the character grid.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	if r.arena.Width <= 0 || r.arena.Height <= 0 {
		return -1, -1
	}
	x := (pos.X - r.arena.Left) / r.arena.Width * float64(r.width)
	y := (pos.Y - r.arena.Top) / r.arena.Height * float64(r.height)
	return int(math.Floor(x)), int(math.Floor(y))
}

// Clear implements engine.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
	r.status = ""
}

// RenderArena implements engine.Renderer. The whole grid shows the arena.
func (r *TerminalRenderer) RenderArena(arena physics.Rect) {
	r.arena = arena
}

// RenderBody implements engine.Renderer. Bodies larger than a cell are
// drawn as filled discs with the centre marked.
func (r *TerminalRenderer) RenderBody(index int, body physics.Body) {
	if r.arena.Width <= 0 || r.arena.Height <= 0 {
		return
	}

	cellW := r.arena.Width / float64(r.width)
	cellH := r.arena.Height / float64(r.height)
	minX, minY := r.worldToScreen(body.Position.Sub(physics.Vector2D{X: body.Radius, Y: body.Radius}))
	maxX, maxY := r.worldToScreen(body.Position.Add(physics.Vector2D{X: body.Radius, Y: body.Radius}))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cell := physics.Vector2D{
				X: r.arena.Left + (float64(x)+0.5)*cellW,
				Y: r.arena.Top + (float64(y)+0.5)*cellH,
			}
			if cell.Distance(body.Position) <= body.Radius {
				r.set(x, y, '.')
			}
		}
	}

	cx, cy := r.worldToScreen(body.Position)
	r.set(cx, cy, 'o')
}

// RenderStatus implements engine.Renderer
func (r *TerminalRenderer) RenderStatus(stats engine.Stats, timeScale float64) {
	r.status = fmt.Sprintf("t=%.2fs scale=%+.2f bodies=%d collisions=%d energy=%.1f",
		stats.SimulatedTime, timeScale, stats.Bodies, stats.Collisions(), stats.KineticEnergy)
}

// Present implements engine.Renderer
func (r *TerminalRenderer) Present() {
	var sb strings.Builder

	// Clear terminal
	sb.WriteString("\033[H\033[2J")

	border := "+" + strings.Repeat("-", r.width) + "+" + r.eol
	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|" + r.eol)
	}
	sb.WriteString(border)
	sb.WriteString(r.status)
	sb.WriteString(r.eol)

	io.WriteString(r.out, sb.String())
}

func (r *TerminalRenderer) set(x, y int, ch rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = ch
	}
}
