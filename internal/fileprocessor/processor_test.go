package fileprocessor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// glyphProgram draws the glyph 0 at the top left corner and loops.
var glyphProgram = []byte{
	0x00, 0xE0, // cls
	0x60, 0x00, // ld V0, $00
	0xF0, 0x29, // ld F, V0
	0xD0, 0x05, // drw V0, V0, 5
	0x12, 0x08, // jp $208
}

func writeROM(t *testing.T, data []byte) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(fileName, data, 0o600))
	return fileName
}

func newTestProcessor(t *testing.T, data []byte) (*Processor, *bytes.Buffer) {
	t.Helper()

	opts := options.New()
	opts.Input = writeROM(t, data)
	opts.Headless = true
	opts.Frames = 2
	opts.FrameRate = 1000

	var out bytes.Buffer
	p := New(log.NewTestLogger(t), opts)
	p.stdin = nil
	p.stdout = &out
	return p, &out
}

func TestProcessFileList(t *testing.T) {
	p, out := newTestProcessor(t, glyphProgram)
	p.opts.List = true

	assert.NoError(t, p.ProcessFile(context.Background()))
	assert.Contains(t, out.String(), "cls")
	assert.Contains(t, out.String(), "L_208:")
}

func TestProcessFileHeadless(t *testing.T) {
	p, out := newTestProcessor(t, glyphProgram)

	assert.NoError(t, p.ProcessFile(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "█▀▀█"))
}

func TestProcessFileScreenshot(t *testing.T) {
	p, _ := newTestProcessor(t, glyphProgram)
	p.opts.Screenshot = filepath.Join(t.TempDir(), "frame.png")
	p.opts.Scale = 2

	assert.NoError(t, p.ProcessFile(context.Background()))
	info, err := os.Stat(p.opts.Screenshot)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestProcessFileHalt(t *testing.T) {
	p, _ := newTestProcessor(t, []byte{0x00, 0xEE}) // ret
	p.opts.Screenshot = filepath.Join(t.TempDir(), "frame.png")

	err := p.ProcessFile(context.Background())
	assert.True(t, errors.Is(err, runner.ErrHalted))
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))

	_, err = os.Stat(p.opts.Screenshot)
	assert.NoError(t, err)
}

func TestProcessFileMissingROM(t *testing.T) {
	p, _ := newTestProcessor(t, glyphProgram)
	p.opts.Input = filepath.Join(t.TempDir(), "missing.ch8")

	assert.ErrorContains(t, p.ProcessFile(context.Background()), "loading rom")
}

func TestProcessFileWindowFallback(t *testing.T) {
	p, out := newTestProcessor(t, glyphProgram)
	p.opts.Headless = false

	var windowCalls int
	p.runWindow = func(_ context.Context, _ *log.Logger, _ *runner.Runner, _ options.Program) error {
		windowCalls++
		return window.ErrUnavailable
	}

	assert.NoError(t, p.ProcessFile(context.Background()))
	assert.Equal(t, 1, windowCalls)
	assert.NotEmpty(t, out.String())
}

func TestProcessFileWindow(t *testing.T) {
	p, out := newTestProcessor(t, glyphProgram)
	p.opts.Headless = false

	p.runWindow = func(_ context.Context, _ *log.Logger, r *runner.Runner, _ options.Program) error {
		return r.Frame()
	}

	assert.NoError(t, p.ProcessFile(context.Background()))
	assert.Empty(t, out.String())
}

func TestPrintBanner(t *testing.T) {
	opts := options.New()
	PrintBanner(log.NewTestLogger(t), opts, "1.0.0", "0123456789abcdef", "2024-01-01")

	opts.Quiet = true
	PrintBanner(log.NewTestLogger(t), opts, "dev", "", "")
}
