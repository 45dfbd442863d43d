// Package chip8 provides a CHIP-8 interpreter core.
//
// # Architecture Overview
//
// CHIP-8 is an interpreted programming language from the 1970s designed for
// simple games on early microcomputers. The virtual machine consists of:
//   - 4KB of memory (0x000-MaxAddress), with the built-in font at 0x000
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - a 16-bit index register I and program counter PC
//   - a 16 entry call stack
//   - a 64x32 monochrome display
//   - delay and sound timers, decremented at an external cadence
//   - a 16 key hexadecimal keypad
//
// # Memory Layout
//
//	0x000-0x04F: Font glyphs for the hex digits 0-F (5 bytes each)
//	0x050-0x1FF: Unused interpreter area
//	0x200-0xFFF: Program space (ProgramStart-MaxAddress)
//
// # Execution Model
//
// The interpreter does not perform any I/O, threading or timing. The host
// calls Tick once per CPU cycle and TickTimers at its own cadence, which is
// conventionally 60 Hz. Between ticks the host reads the display and updates
// the keypad state:
//
//	vm := chip8.New()
//	if err := vm.Load(rom); err != nil {
//		return fmt.Errorf("loading rom: %w", err)
//	}
//	for range ticksPerFrame {
//		if err := vm.Tick(); err != nil {
//			return err
//		}
//	}
//	vm.TickTimers()
//
// The "wait for key" instruction (Fx0A) does not block. When no key is
// pressed it rewinds the program counter, so the same instruction executes
// again on the next tick.
//
// # Faults
//
// Faults caused by the running program (unsupported opcodes, stack overflow
// or underflow and out of range memory accesses) are returned by Tick as a
// *Fault wrapping one of the ErrUnsupportedOpcode, ErrStackOverflow,
// ErrStackUnderflow or ErrMemoryBounds errors. A faulting instruction does not
// modify the machine state. Invalid host calls return ErrInvalidKey or
// ErrProgramTooLarge.
package chip8
