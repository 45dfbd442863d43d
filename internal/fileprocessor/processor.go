// Package fileprocessor handles ROM loading and the processing of a ROM
// file, either listing or running it.
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/screenshot"
	"github.com/retroenv/retrogolib/log"
)

// Processor processes a single ROM file.
type Processor struct {
	logger *log.Logger
	opts   options.Program

	stdin  *os.File
	stdout io.Writer

	// runWindow is replaceable to run without a display.
	runWindow func(ctx context.Context, logger *log.Logger, r *runner.Runner, opts options.Program) error
}

// New returns a processor using the standard input and output.
func New(logger *log.Logger, opts options.Program) *Processor {
	return &Processor{
		logger:    logger,
		opts:      opts,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		runWindow: window.Run,
	}
}

// ProcessFile handles the complete file processing workflow.
func (p *Processor) ProcessFile(ctx context.Context) error {
	program, err := loader.New().Load(p.opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	p.logger.Debug("ROM loaded",
		log.String("file", p.opts.Input),
		log.Int("size", len(program)))

	if p.opts.List {
		if err := disasm.Listing(p.stdout, program, chip8.ProgramStart); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}

	r, err := runner.New(p.logger, p.opts, program)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	runErr := p.run(ctx, r)

	if p.opts.Screenshot != "" {
		display := r.Interpreter().Display()
		if err := screenshot.Save(p.opts.Screenshot, display, p.opts.Scale); err != nil {
			return errors.Join(runErr, fmt.Errorf("saving screenshot: %w", err))
		}
		p.logger.Info("Screenshot saved", log.String("file", p.opts.Screenshot))
	}

	p.logger.Debug("Execution finished", log.Int("frames", int(r.Frames())))
	return runErr
}

func (p *Processor) run(ctx context.Context, r *runner.Runner) error {
	if !p.opts.Headless {
		err := p.runWindow(ctx, p.logger, r, p.opts)
		if !errors.Is(err, window.ErrUnavailable) {
			return err
		}
		p.logger.Warn("Window not available, using the terminal")
	}
	return p.runTerminal(ctx, r)
}

func (p *Processor) runTerminal(ctx context.Context, r *runner.Runner) error {
	term := terminal.New(p.stdout)
	if p.stdin != nil {
		if err := term.StartInput(p.stdin); err != nil {
			return fmt.Errorf("starting terminal input: %w", err)
		}
	}
	defer term.Stop()

	err := r.Run(ctx, term)
	if errors.Is(err, terminal.ErrQuit) {
		return nil
	}
	return err
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
