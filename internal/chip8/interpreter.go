package chip8

import (
	"fmt"
	"math/rand/v2"
)

// CHIP-8 machine constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// ProgramStart is the address that programs are loaded to and where
	// execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF

	// StackSize is the number of return addresses the call stack can hold.
	StackSize = 16

	// KeyCount is the number of keys of the hexadecimal keypad.
	KeyCount = 16
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRandom sets the random byte source used by the RND instruction.
func WithRandom(source func() byte) Option {
	return func(c *Interpreter) {
		c.random = source
	}
}

// Interpreter is a CHIP-8 virtual machine. It is not safe for concurrent use.
type Interpreter struct {
	memory [MemorySize]byte
	v      [RegisterCount]uint8
	i      uint16
	pc     uint16

	stack [StackSize]uint16
	sp    uint8

	display Display
	keys    [KeyCount]bool

	delayTimer uint8
	soundTimer uint8

	random func() byte
}

// State is a copy of the CPU registers, used for logging and inspection.
type State struct {
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	SP    uint8
	Delay uint8
	Sound uint8
}

// New returns a freshly initialized interpreter with the font loaded and
// the program counter at ProgramStart.
func New(options ...Option) *Interpreter {
	c := &Interpreter{
		random: defaultRandom,
	}
	for _, option := range options {
		option(c)
	}
	c.Reset()
	return c
}

func defaultRandom() byte {
	return byte(rand.UintN(256))
}

// Reset returns the interpreter to its freshly initialized state. The
// program image is not reloaded, the memory is cleared apart from the font.
func (c *Interpreter) Reset() {
	c.memory = [MemorySize]byte{}
	copy(c.memory[:], fontSet[:])
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = ProgramStart
	c.stack = [StackSize]uint16{}
	c.sp = 0
	c.display.clear()
	c.keys = [KeyCount]bool{}
	c.delayTimer = 0
	c.soundTimer = 0
}

// Load copies a program image into memory starting at ProgramStart.
// Images larger than MaxProgramSize are rejected without modifying memory.
func (c *Interpreter) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(c.memory[ProgramStart:], program)
	return nil
}

// Tick executes exactly one fetch-decode-execute cycle. Program faults are
// returned as *Fault, in which case the machine state is unchanged.
func (c *Interpreter) Tick() error {
	pc := c.pc
	opcode, err := c.fetch()
	if err != nil {
		return &Fault{PC: pc, Err: err}
	}

	if err := c.execute(opcode); err != nil {
		c.pc = pc
		return &Fault{PC: pc, Opcode: opcode, Err: err}
	}
	return nil
}

// Skip advances the program counter past the current instruction without
// executing it.
func (c *Interpreter) Skip() {
	c.pc += 2
}

// fetch reads the big endian opcode at the program counter and advances it.
func (c *Interpreter) fetch() (uint16, error) {
	if int(c.pc)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: fetching at $%04X", ErrMemoryBounds, c.pc)
	}
	high := uint16(c.memory[c.pc])
	low := uint16(c.memory[c.pc+1])
	c.pc += 2
	return high<<8 | low, nil
}

// Opcode returns the opcode at the program counter without executing it.
// It returns false if the program counter is outside of memory.
func (c *Interpreter) Opcode() (uint16, bool) {
	if int(c.pc)+1 >= MemorySize {
		return 0, false
	}
	return uint16(c.memory[c.pc])<<8 | uint16(c.memory[c.pc+1]), true
}

func (c *Interpreter) push(address uint16) error {
	if int(c.sp) >= StackSize {
		return ErrStackOverflow
	}
	c.stack[c.sp] = address
	c.sp++
	return nil
}

func (c *Interpreter) pop() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c.sp--
	return c.stack[c.sp], nil
}

// checkRange returns an error if length bytes starting at the index
// register do not fit into memory.
func (c *Interpreter) checkRange(length int) error {
	if int(c.i)+length > MemorySize {
		return fmt.Errorf("%w: %d bytes at $%04X", ErrMemoryBounds, length, c.i)
	}
	return nil
}

// ReadMemory returns the byte at the given address.
func (c *Interpreter) ReadMemory(address uint16) (byte, error) {
	if int(address) >= MemorySize {
		return 0, fmt.Errorf("%w: reading $%04X", ErrMemoryBounds, address)
	}
	return c.memory[address], nil
}

// SetKey sets the pressed state of a keypad key.
func (c *Interpreter) SetKey(index uint8, pressed bool) error {
	if index >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, index)
	}
	c.keys[index] = pressed
	return nil
}

// Key returns whether the keypad key is pressed. Out of range indices
// report false.
func (c *Interpreter) Key(index uint8) bool {
	if index >= KeyCount {
		return false
	}
	return c.keys[index]
}

// Display returns a copy of the display surface.
func (c *Interpreter) Display() Display {
	return c.display
}

// Pixel returns whether the display pixel at x, y is set.
func (c *Interpreter) Pixel(x, y int) bool {
	return c.display.Pixel(x, y)
}

// PC returns the program counter.
func (c *Interpreter) PC() uint16 { return c.pc }

// I returns the index register.
func (c *Interpreter) I() uint16 { return c.i }

// SP returns the stack pointer.
func (c *Interpreter) SP() uint8 { return c.sp }

// V returns the value of register Vx. Out of range indices report 0.
func (c *Interpreter) V(x uint8) uint8 {
	if x >= RegisterCount {
		return 0
	}
	return c.v[x]
}

// DelayTimer returns the current delay timer value.
func (c *Interpreter) DelayTimer() uint8 { return c.delayTimer }

// SoundTimer returns the current sound timer value.
func (c *Interpreter) SoundTimer() uint8 { return c.soundTimer }

// State returns a copy of the CPU registers.
func (c *Interpreter) State() State {
	return State{
		V:     c.v,
		I:     c.i,
		PC:    c.pc,
		SP:    c.sp,
		Delay: c.delayTimer,
		Sound: c.soundTimer,
	}
}
