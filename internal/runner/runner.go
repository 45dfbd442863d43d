// Package runner drives a CHIP-8 interpreter in real time. It executes a
// configured number of instructions per frame, decays the timers once per
// frame and applies the fault policy when the program fails.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrHalted is returned by Frame after a fault halted the program.
var ErrHalted = errors.New("program halted")

// Frontend presents the machine to the user during Run.
type Frontend interface {
	// Input is called before every frame to update the keypad state.
	Input(keys KeySetter) error
	// Present is called after every frame with the current display.
	Present(display chip8.Display, sounding bool) error
}

// KeySetter sets the pressed state of a keypad key.
type KeySetter interface {
	SetKey(index uint8, pressed bool) error
}

// Runner owns an interpreter and executes it frame by frame.
type Runner struct {
	logger  *log.Logger
	opts    options.Program
	vm      *chip8.Interpreter
	program []byte

	frames   uint64
	sounding bool
	halted   *chip8.Fault
}

// New creates a runner for the given program image.
func New(logger *log.Logger, opts options.Program, program []byte, vmOptions ...chip8.Option) (*Runner, error) {
	vm := chip8.New(vmOptions...)
	if err := vm.Load(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	return &Runner{
		logger:  logger,
		opts:    opts,
		vm:      vm,
		program: program,
	}, nil
}

// Interpreter returns the interpreter run by the runner.
func (r *Runner) Interpreter() *chip8.Interpreter {
	return r.vm
}

// Frames returns the number of frames executed so far.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// Sounding returns whether the tone should currently play.
func (r *Runner) Sounding() bool {
	return r.sounding
}

// SetKey sets the pressed state of a keypad key.
func (r *Runner) SetKey(index uint8, pressed bool) error {
	if err := r.vm.SetKey(index, pressed); err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	return nil
}

// Frame executes the instructions of one frame followed by one timer decay
// step. After a halting fault every further call returns ErrHalted.
func (r *Runner) Frame() error {
	if r.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, r.halted)
	}

	for range r.opts.TicksPerFrame {
		if err := r.step(); err != nil {
			return err
		}
	}

	if r.vm.TickTimers() {
		r.logger.Debug("Sound stopped", log.Int("frame", int(r.frames)))
	}
	r.updateSound()
	r.frames++
	return nil
}

// Run executes frames at the configured frame rate until the context is
// cancelled, the frame limit is reached or the program halts.
func (r *Runner) Run(ctx context.Context, frontend Frontend) error {
	ticker := time.NewTicker(r.opts.FrameDuration())
	defer ticker.Stop()

	for {
		if r.opts.Frames > 0 && r.frames >= r.opts.Frames {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("running: %w", ctx.Err())
		case <-ticker.C:
		}

		if err := frontend.Input(r); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if err := r.Frame(); err != nil {
			return err
		}
		if err := frontend.Present(r.vm.Display(), r.sounding); err != nil {
			return fmt.Errorf("presenting frame: %w", err)
		}
	}
}

func (r *Runner) step() error {
	if r.opts.Trace {
		r.trace()
	}

	err := r.vm.Tick()
	if err == nil {
		return nil
	}

	var fault *chip8.Fault
	if !errors.As(err, &fault) {
		return fmt.Errorf("executing instruction: %w", err)
	}
	return r.handleFault(fault)
}

func (r *Runner) trace() {
	state := r.vm.State()
	opcode, ok := r.vm.Opcode()
	if !ok {
		return
	}
	r.logger.Debug("Executing",
		log.Hex("pc", state.PC),
		log.Hex("opcode", opcode),
		log.String("instruction", disasm.Format(opcode)),
		log.Hex("i", state.I),
		log.Uint8("sp", state.SP),
	)
}

// handleFault applies the configured fault policy. It returns an error only
// if the program has to halt.
func (r *Runner) handleFault(fault *chip8.Fault) error {
	r.logger.Warn("Program fault",
		log.Hex("pc", fault.PC),
		log.Hex("opcode", fault.Opcode),
		log.String("instruction", disasm.Format(fault.Opcode)),
		log.String("policy", r.opts.Fault),
		log.Err(fault.Err),
	)

	switch r.opts.Fault {
	case options.FaultReset:
		r.vm.Reset()
		if err := r.vm.Load(r.program); err != nil {
			return fmt.Errorf("reloading program: %w", err)
		}
		r.sounding = false
		return nil

	case options.FaultSkip:
		// a fault outside of memory can not be skipped
		if _, ok := r.vm.Opcode(); ok {
			r.vm.Skip()
			return nil
		}
	}

	r.halted = fault
	return fmt.Errorf("%w: %w", ErrHalted, fault)
}

func (r *Runner) updateSound() {
	sounding := r.vm.SoundShouldPlay()
	if sounding && !r.sounding {
		r.logger.Debug("Sound started",
			log.Int("frame", int(r.frames)),
			log.Uint8("timer", r.vm.SoundTimer()))
	}
	r.sounding = sounding
}
