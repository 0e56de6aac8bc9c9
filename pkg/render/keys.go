package render

import (
	"bufio"
	"context"
	"io"

	"github.com/opd-ai/go-ballpit/pkg/control"
)

// ScaleStep is the time scale change of one '+' or '-' key press.
const ScaleStep = 0.1

// Controller is the part of engine.Runner driven from the keyboard.
type Controller interface {
	TogglePause() bool
	Reverse()
	TimeScale() float64
	SetTimeScale(scale float64)
}

// KeyControl maps terminal key presses onto a runner. The slider keeps the
// chosen time scale within its range.
type KeyControl struct {
	runner Controller
	slider *control.Slider
	quit   func()
}

// NewKeyControl creates a key handler for runner. quit is called for 'q',
// escape and Ctrl-C, which raw mode delivers as a plain byte.
func NewKeyControl(runner Controller, slider *control.Slider, quit func()) *KeyControl {
	return &KeyControl{
		runner: runner,
		slider: slider,
		quit:   quit,
	}
}

// HandleKey applies one key press.
func (k *KeyControl) HandleKey(b byte) {
	switch b {
	case ' ':
		k.runner.TogglePause()
	case 'r', 'R':
		k.runner.Reverse()
	case '+', '=':
		k.nudge(ScaleStep)
	case '-', '_':
		k.nudge(-ScaleStep)
	case '0':
		k.nudge(-k.runner.TimeScale())
	case 'q', 'Q', '\x1b', '\x03':
		if k.quit != nil {
			k.quit()
		}
	}
}

func (k *KeyControl) nudge(delta float64) {
	k.slider.SetValue(k.runner.TimeScale() + delta)
	k.runner.SetTimeScale(k.slider.Value())
}

// Listen handles key presses read from r until ctx is done or r fails.
// A read blocked on r is only noticed after the next byte arrives.
func (k *KeyControl) Listen(ctx context.Context, r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		b, err := reader.ReadByte()
		if err != nil || ctx.Err() != nil {
			return
		}
		k.HandleKey(b)
	}
}
