package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// newTestInterpreter returns an interpreter with the given opcodes loaded
// at ProgramStart.
func newTestInterpreter(t *testing.T, opcodes ...uint16) *Interpreter {
	t.Helper()

	program := make([]byte, 0, len(opcodes)*2)
	for _, opcode := range opcodes {
		program = append(program, byte(opcode>>8), byte(opcode))
	}

	c := New(WithRandom(func() byte { return 0xFF }))
	assert.NoError(t, c.Load(program))
	return c
}

// run executes count ticks and fails the test on any fault.
func run(t *testing.T, c *Interpreter, count int) {
	t.Helper()
	for range count {
		assert.NoError(t, c.Tick())
	}
}

func TestNew(t *testing.T) {
	c := New()

	assert.Equal(t, uint16(ProgramStart), c.PC())
	assert.Equal(t, uint16(0), c.I())
	assert.Equal(t, uint8(0), c.SP())
	assert.Equal(t, 0, c.display.Lit())
	assert.Equal(t, fontSet, [FontSize]byte(c.memory[:FontSize]))
	for address := FontSize; address < MemorySize; address++ {
		if c.memory[address] != 0 {
			t.Fatalf("memory at $%03X is not zero", address)
		}
	}
}

func TestReset(t *testing.T) {
	c := newTestInterpreter(t,
		0x6A42, // ld VA, $42
		0xA300, // ld I, $300
		0x2208, // call $208
		0x0000,
		0xFA15, // ld DT, VA
	)
	c.memory[0] = 0x00 // damage the first glyph
	run(t, c, 4)
	assert.NoError(t, c.SetKey(3, true))
	c.display[10] = true
	c.soundTimer = 7

	c.Reset()

	assert.Equal(t, uint16(ProgramStart), c.PC())
	assert.Equal(t, uint16(0), c.I())
	assert.Equal(t, uint8(0), c.SP())
	assert.Equal(t, uint8(0), c.V(0xA))
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())
	assert.False(t, c.Key(3))
	assert.Equal(t, 0, c.display.Lit())
	assert.Equal(t, fontSet, [FontSize]byte(c.memory[:FontSize]))
	assert.Equal(t, byte(0), c.memory[ProgramStart])
}

func TestLoad(t *testing.T) {
	t.Run("program is copied to program start", func(t *testing.T) {
		c := New()
		assert.NoError(t, c.Load([]byte{0x12, 0x34, 0x56}))

		b, err := c.ReadMemory(ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x12), b)
		b, err = c.ReadMemory(ProgramStart + 2)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x56), b)
	})

	t.Run("maximum size fits", func(t *testing.T) {
		program := make([]byte, MaxProgramSize)
		program[len(program)-1] = 0xAB

		c := New()
		assert.NoError(t, c.Load(program))
		b, err := c.ReadMemory(MaxAddress)
		assert.NoError(t, err)
		assert.Equal(t, byte(0xAB), b)
	})

	t.Run("oversized program is rejected", func(t *testing.T) {
		program := make([]byte, MaxProgramSize+1)
		for i := range program {
			program[i] = 0xEE
		}

		c := New()
		err := c.Load(program)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrProgramTooLarge))

		b, err := c.ReadMemory(ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, byte(0), b)
	})
}

func TestFetch(t *testing.T) {
	c := newTestInterpreter(t, 0xA2F0)

	opcode, err := c.fetch()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xA2F0), opcode)
	assert.Equal(t, uint16(ProgramStart+2), c.PC())
}

func TestFetchOutOfBounds(t *testing.T) {
	c := New()
	c.pc = MaxAddress

	err := c.Tick()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMemoryBounds))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(MaxAddress), fault.PC)
	assert.Equal(t, uint16(MaxAddress), c.PC())
}

func TestOpcodePeek(t *testing.T) {
	c := newTestInterpreter(t, 0x00E0)

	opcode, ok := c.Opcode()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x00E0), opcode)
	assert.Equal(t, uint16(ProgramStart), c.PC())

	c.pc = MaxAddress
	_, ok = c.Opcode()
	assert.False(t, ok)
}

func TestSetKey(t *testing.T) {
	c := New()

	assert.NoError(t, c.SetKey(0xF, true))
	assert.True(t, c.Key(0xF))
	assert.NoError(t, c.SetKey(0xF, false))
	assert.False(t, c.Key(0xF))

	err := c.SetKey(KeyCount, true)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidKey))
	assert.False(t, c.Key(KeyCount))
}

func TestReadMemoryOutOfBounds(t *testing.T) {
	c := New()

	_, err := c.ReadMemory(MemorySize)
	assert.True(t, errors.Is(err, ErrMemoryBounds))
}

func TestSkip(t *testing.T) {
	c := New()
	c.Skip()
	assert.Equal(t, uint16(ProgramStart+2), c.PC())
}

func TestState(t *testing.T) {
	c := newTestInterpreter(t,
		0x6105, // ld V1, $05
		0xA123, // ld I, $123
		0xF115, // ld DT, V1
		0xF118, // ld ST, V1
	)
	run(t, c, 4)

	state := c.State()
	assert.Equal(t, uint8(5), state.V[1])
	assert.Equal(t, uint16(0x123), state.I)
	assert.Equal(t, uint16(ProgramStart+8), state.PC)
	assert.Equal(t, uint8(5), state.Delay)
	assert.Equal(t, uint8(5), state.Sound)
}

func TestTickTimers(t *testing.T) {
	t.Run("delay timer counts down to zero", func(t *testing.T) {
		c := New()
		c.delayTimer = 2

		assert.False(t, c.TickTimers())
		assert.Equal(t, uint8(1), c.DelayTimer())
		assert.False(t, c.TickTimers())
		assert.Equal(t, uint8(0), c.DelayTimer())
		assert.False(t, c.TickTimers())
		assert.Equal(t, uint8(0), c.DelayTimer())
	})

	t.Run("sound stop is signalled once", func(t *testing.T) {
		c := New()
		c.soundTimer = 1
		assert.True(t, c.SoundShouldPlay())

		var stops int
		for range 5 {
			if c.TickTimers() {
				stops++
			}
		}
		assert.Equal(t, 1, stops)
		assert.Equal(t, uint8(0), c.SoundTimer())
		assert.False(t, c.SoundShouldPlay())
	})

	t.Run("timers are independent of instructions", func(t *testing.T) {
		c := newTestInterpreter(t,
			0x6003, // ld V0, $03
			0xF015, // ld DT, V0
			0x0000,
			0x0000,
		)
		run(t, c, 4)
		assert.Equal(t, uint8(3), c.DelayTimer())
	})
}
