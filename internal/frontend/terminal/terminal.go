// Package terminal renders the CHIP-8 display as text and reads keypad
// input from a raw mode terminal.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/runner"
	"golang.org/x/term"
)

// ErrQuit is returned by Input after the user pressed Ctrl+C or Escape.
var ErrQuit = errors.New("quit requested")

const (
	// holdFrames is the number of frames a key stays pressed after a key
	// press was read, terminals do not report key releases.
	holdFrames = 6

	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"

	keyCtrlC  = 0x03
	keyEscape = 0x1B

	inputBufferSize = 16
)

var _ runner.Frontend = (*Terminal)(nil)

// Terminal is a text frontend. Two display rows are packed into one line
// of half block characters.
type Terminal struct {
	out  io.Writer
	ansi bool

	fd       int
	oldState *term.State
	input    chan rune

	held [chip8.KeyCount]int
	buf  strings.Builder
}

// New returns a terminal frontend writing to out. ANSI cursor control is
// used when out is a terminal.
func New(out io.Writer) *Terminal {
	t := &Terminal{
		out: out,
		fd:  -1,
	}
	if f, ok := out.(*os.File); ok {
		t.ansi = term.IsTerminal(int(f.Fd()))
	}
	return t
}

// StartInput switches the input file to raw mode and starts reading key
// presses from it. It does nothing if the file is not a terminal.
func (t *Terminal) StartInput(in *os.File) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.fd = fd
	t.oldState = oldState
	t.input = make(chan rune, inputBufferSize)

	go readInput(in, t.input)

	if t.ansi {
		_, _ = io.WriteString(t.out, ansiClear+ansiHideCursor)
	}
	return nil
}

// Stop restores the terminal state.
func (t *Terminal) Stop() {
	if t.ansi {
		_, _ = io.WriteString(t.out, ansiShowCursor)
	}
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// readInput forwards runes read from the reader until it fails. Runes are
// dropped if the frontend does not keep up.
func readInput(reader io.Reader, input chan<- rune) {
	defer close(input)

	buffered := bufio.NewReader(reader)
	for {
		r, _, err := buffered.ReadRune()
		if err != nil {
			return
		}
		select {
		case input <- r:
		default:
		}
	}
}

// Input releases keys whose hold time expired and presses the keys that
// were typed since the last frame.
func (t *Terminal) Input(keys runner.KeySetter) error {
	for index := range t.held {
		if t.held[index] == 0 {
			continue
		}
		t.held[index]--
		if t.held[index] == 0 {
			if err := keys.SetKey(uint8(index), false); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case r, ok := <-t.input:
			if !ok {
				t.input = nil
				return nil
			}
			if err := t.handleRune(keys, r); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *Terminal) handleRune(keys runner.KeySetter, r rune) error {
	if r == keyCtrlC || r == keyEscape {
		return ErrQuit
	}

	index, ok := keymap.KeyForRune(r)
	if !ok {
		return nil
	}
	t.held[index] = holdFrames
	return keys.SetKey(index, true)
}

// Present draws the display followed by a status line.
func (t *Terminal) Present(display chip8.Display, sounding bool) error {
	t.buf.Reset()
	if t.ansi {
		t.buf.WriteString(ansiHome)
	}
	eol := lineEnd(t.oldState != nil)
	Render(&t.buf, display, eol)

	status := " "
	if sounding {
		status = "♪"
	}
	t.buf.WriteString(status)
	t.buf.WriteString(eol)

	if _, err := io.WriteString(t.out, t.buf.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Render writes the display as lines of half block characters, two pixel
// rows per line.
func Render(w *strings.Builder, display chip8.Display, eol string) {
	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := range chip8.DisplayWidth {
			upper := display.Pixel(x, y)
			lower := display.Pixel(x, y+1)
			switch {
			case upper && lower:
				w.WriteRune('█')
			case upper:
				w.WriteRune('▀')
			case lower:
				w.WriteRune('▄')
			default:
				w.WriteRune(' ')
			}
		}
		w.WriteString(eol)
	}
}

// lineEnd returns the line terminator, raw mode terminals need an
// explicit carriage return.
func lineEnd(raw bool) string {
	if raw {
		return "\r\n"
	}
	return "\n"
}
