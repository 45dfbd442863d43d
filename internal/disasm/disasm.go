// Package disasm formats CHIP-8 opcodes as assembly text. It is used for
// instruction traces, fault reports and ROM listings.
package disasm

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Lookup returns the instruction matching the opcode. It returns nil for
// opcodes that are not part of the instruction set.
func Lookup(opcode uint16) *chip8.Instruction {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Format returns the assembly text of an opcode. Unknown opcodes are
// formatted as data words.
func Format(opcode uint16) string {
	ins := Classify(opcode)
	if ins.IsNil() {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	if params := formatInstruction(ins.Name(), opcode); params != "" {
		return fmt.Sprintf("%s %s", ins.Name(), params)
	}
	return ins.Name()
}

// Listing writes a linear listing of the program, which is assumed to be
// loaded at start. Jump and call destinations inside the program get a
// label line, an empty line follows instructions that end the control flow.
func Listing(w io.Writer, program []byte, start uint16) error {
	end := int(start) + len(program)
	labels := collectLabels(program, start, end)

	var skipped bool // previous instruction can skip the current one
	for offset := 0; offset+1 < len(program); offset += opcodeSize {
		address := start + uint16(offset)
		if labels[address] {
			if _, err := fmt.Fprintf(w, "%s:\n", label(address)); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		if _, err := fmt.Fprintf(w, "  %-20s ; $%03X  %04X\n", Format(opcode), address, opcode); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}

		ins := Classify(opcode)
		if (ins.IsJump() || ins.IsReturn()) && !skipped {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("writing separator: %w", err)
			}
		}
		skipped = ins.IsSkip()
	}

	if len(program)%opcodeSize != 0 {
		last := program[len(program)-1]
		address := start + uint16(len(program)-1)
		if _, err := fmt.Fprintf(w, "  %-20s ; $%03X\n", fmt.Sprintf(".byte $%02X", last), address); err != nil {
			return fmt.Errorf("writing trailing byte: %w", err)
		}
	}
	return nil
}

// collectLabels returns the set of addresses that are targets of jump or
// call instructions and lie within the program.
func collectLabels(program []byte, start uint16, end int) map[uint16]bool {
	labels := make(map[uint16]bool)
	for offset := 0; offset+1 < len(program); offset += opcodeSize {
		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		ins := Classify(opcode)
		if !ins.IsJump() && !ins.IsCall() {
			continue
		}
		if opcode&0xF000 == 0xB000 {
			continue // target depends on V0
		}

		target := opcode & 0x0FFF
		if target >= start && int(target) < end {
			labels[target] = true
		}
	}
	return labels
}

func label(address uint16) string {
	return fmt.Sprintf("L_%03X", address)
}

// formatInstruction formats a CHIP-8 instruction with its parameters.
// Returns the formatted parameter string for the given instruction.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return "" // No parameters
	case chip8.JpInst.Name:
		return formatJumpInstruction(opcode)
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return formatCompareInstruction(opcode)
	case chip8.LdInst.Name:
		return formatLoadInstruction(opcode)
	case chip8.AddInst.Name:
		return formatAddInstruction(opcode)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return formatBinaryInstruction(opcode)
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", extractRegisterX(opcode))
	case chip8.RndInst.Name:
		return formatRandomInstruction(opcode)
	case chip8.DrwInst.Name:
		return formatDrawInstruction(opcode)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	if opcode&0xF000 == 0x1000 {
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	}
	if opcode&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
	return ""
}

// formatLoadInstruction formats the load instruction variants.
func formatLoadInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		return formatMiscLoadInstruction(opcode, x)
	}
	return ""
}

// formatMiscLoadInstruction formats the Fx load instructions that move data
// between registers, timers, keypad and memory.
func formatMiscLoadInstruction(opcode, x uint16) string {
	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

// formatBinaryInstruction formats binary operation instructions (OR, AND, XOR, SUB, SUBN).
func formatBinaryInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	return fmt.Sprintf("V%X, V%X", x, y)
}

// formatRandomInstruction formats random number instructions (RND).
func formatRandomInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
}

// formatDrawInstruction formats draw instructions (DRW).
func formatDrawInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	n := opcode & 0x000F
	return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
