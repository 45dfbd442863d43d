package chip8

import (
	"errors"
	"fmt"
)

// Program faults. These are caused by the running program and are reported
// wrapped in a *Fault by Tick.
var (
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrMemoryBounds      = errors.New("memory access out of bounds")
)

// Host misuse errors, returned synchronously by the call that caused them.
var (
	ErrInvalidKey      = errors.New("invalid key index")
	ErrProgramTooLarge = errors.New("program too large")
)

// Fault describes a program fault raised while executing the instruction
// at PC. The interpreter state is left as it was before the instruction,
// with the program counter pointing at the faulting instruction.
type Fault struct {
	PC     uint16
	Opcode uint16
	Err    error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("executing opcode $%04X at $%03X: %s", f.Opcode, f.PC, f.Err)
}

// Unwrap returns the underlying fault reason.
func (f *Fault) Unwrap() error {
	return f.Err
}
