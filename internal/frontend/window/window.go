//go:build !headless

package window

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

const title = "retrochip8"

var (
	foreground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	background = color.RGBA{A: 0xFF}
	statusText = color.RGBA{R: 0xE0, G: 0x40, B: 0x40, A: 0xFF}
)

// hostKeys maps the runes of the keypad layout to ebiten keys.
var hostKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// keyTable returns the ebiten key for every keypad index.
func keyTable(layout [chip8.KeyCount]rune) ([chip8.KeyCount]ebiten.Key, error) {
	var keys [chip8.KeyCount]ebiten.Key
	for index, r := range layout {
		key, ok := hostKeys[r]
		if !ok {
			return keys, fmt.Errorf("no window key for keypad key %X (%q)", index, r)
		}
		keys[index] = key
	}
	return keys, nil
}

// Window implements the ebiten game loop. Ebiten calls Update at the frame
// rate, every call executes one machine frame.
type Window struct {
	ctx    context.Context
	logger *log.Logger
	runner *runner.Runner
	opts   options.Program
	keys   [chip8.KeyCount]ebiten.Key

	frame  *ebiten.Image
	pixels []byte
	width  int
	height int

	err    error // error that ended the execution
	halted bool
}

// Run opens the window and executes the machine until the window is closed,
// the context is cancelled or the frame limit is reached. A halting fault
// keeps the window open to show the last display state.
func Run(ctx context.Context, logger *log.Logger, r *runner.Runner, opts options.Program) error {
	keys, err := keyTable(keymap.Layout)
	if err != nil {
		return err
	}

	w := &Window{
		ctx:    ctx,
		logger: logger,
		runner: r,
		opts:   opts,
		keys:   keys,
		pixels: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
		width:  chip8.DisplayWidth * opts.Scale,
		height: chip8.DisplayHeight * opts.Scale,
	}

	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(opts.FrameRate)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return w.err
}

// Update is called by ebiten once per tick.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := w.ctx.Err(); err != nil {
		w.err = fmt.Errorf("running: %w", err)
		return ebiten.Termination
	}
	if w.halted {
		return nil
	}
	if w.opts.Frames > 0 && w.runner.Frames() >= w.opts.Frames {
		return ebiten.Termination
	}

	for index, key := range w.keys {
		if err := w.runner.SetKey(uint8(index), ebiten.IsKeyPressed(key)); err != nil {
			return err
		}
	}

	if err := w.runner.Frame(); err != nil {
		if !errors.Is(err, runner.ErrHalted) {
			return err
		}
		w.err = err
		w.halted = true
		w.logger.Error("Program halted, close the window to exit", log.Err(err))
	}

	w.updatePixels(w.runner.Interpreter().Display())
	return nil
}

func (w *Window) updatePixels(display chip8.Display) {
	for index, lit := range display {
		c := background
		if lit {
			c = foreground
		}
		offset := index * 4
		w.pixels[offset] = c.R
		w.pixels[offset+1] = c.G
		w.pixels[offset+2] = c.B
		w.pixels[offset+3] = c.A
	}
}

// Draw renders the last frame scaled to the window size.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		w.frame = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}
	w.frame.WritePixels(w.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.opts.Scale), float64(w.opts.Scale))
	screen.DrawImage(w.frame, op)

	if w.halted {
		text.Draw(screen, "HALTED", basicfont.Face7x13, 4, 16, statusText)
	}
}

// Layout returns the fixed logical screen size, ebiten scales it to the
// window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}
