package chip8

// instruction is an opcode split into its four nibbles.
type instruction struct {
	opcode uint16
	group  uint8 // leading nibble
	x      uint8
	y      uint8
	n      uint8 // lowest nibble
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		group:  uint8(opcode >> 12),
		x:      uint8(opcode>>8) & 0xF,
		y:      uint8(opcode>>4) & 0xF,
		n:      uint8(opcode) & 0xF,
	}
}

// kk returns the low byte immediate.
func (in instruction) kk() uint8 {
	return uint8(in.opcode)
}

// nnn returns the 12 bit address immediate.
func (in instruction) nnn() uint16 {
	return in.opcode & 0x0FFF
}

// execute runs a single decoded opcode. The program counter already points
// to the next instruction. All checks are done before any state is modified.
func (c *Interpreter) execute(opcode uint16) error {
	in := decode(opcode)

	switch in.group {
	case 0x0:
		return c.executeSystem(in)

	case 0x1: // jp nnn
		c.pc = in.nnn()

	case 0x2: // call nnn
		if err := c.push(c.pc); err != nil {
			return err
		}
		c.pc = in.nnn()

	case 0x3: // se Vx, kk
		c.skipIf(c.v[in.x] == in.kk())

	case 0x4: // sne Vx, kk
		c.skipIf(c.v[in.x] != in.kk())

	case 0x5: // se Vx, Vy
		if in.n != 0 {
			return ErrUnsupportedOpcode
		}
		c.skipIf(c.v[in.x] == c.v[in.y])

	case 0x6: // ld Vx, kk
		c.v[in.x] = in.kk()

	case 0x7: // add Vx, kk
		c.v[in.x] += in.kk()

	case 0x8:
		return c.executeArithmetic(in)

	case 0x9: // sne Vx, Vy
		if in.n != 0 {
			return ErrUnsupportedOpcode
		}
		c.skipIf(c.v[in.x] != c.v[in.y])

	case 0xA: // ld I, nnn
		c.i = in.nnn()

	case 0xB: // jp V0, nnn
		c.pc = uint16(c.v[0]) + in.nnn()

	case 0xC: // rnd Vx, kk
		c.v[in.x] = c.random() & in.kk()

	case 0xD: // drw Vx, Vy, n
		return c.draw(in)

	case 0xE:
		return c.executeKey(in)

	case 0xF:
		return c.executeMisc(in)

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

func (c *Interpreter) executeSystem(in instruction) error {
	switch in.opcode {
	case 0x0000: // nop

	case 0x00E0: // cls
		c.display.clear()

	case 0x00EE: // ret
		address, err := c.pop()
		if err != nil {
			return err
		}
		c.pc = address

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

// executeArithmetic handles the 8xyN register to register operations. The
// flag register is written last so that it wins when it is also Vx.
func (c *Interpreter) executeArithmetic(in instruction) error {
	vx, vy := c.v[in.x], c.v[in.y]

	switch in.n {
	case 0x0: // ld Vx, Vy
		c.v[in.x] = vy

	case 0x1: // or Vx, Vy
		c.v[in.x] = vx | vy

	case 0x2: // and Vx, Vy
		c.v[in.x] = vx & vy

	case 0x3: // xor Vx, Vy
		c.v[in.x] = vx ^ vy

	case 0x4: // add Vx, Vy
		sum := uint16(vx) + uint16(vy)
		c.v[in.x] = uint8(sum)
		c.v[FlagRegister] = flag(sum > 0xFF)

	case 0x5: // sub Vx, Vy
		c.v[in.x] = vx - vy
		c.v[FlagRegister] = flag(vx >= vy)

	case 0x6: // shr Vx
		c.v[in.x] = vx >> 1
		c.v[FlagRegister] = vx & 1

	case 0x7: // subn Vx, Vy
		c.v[in.x] = vy - vx
		c.v[FlagRegister] = flag(vy >= vx)

	case 0xE: // shl Vx
		c.v[in.x] = vx << 1
		c.v[FlagRegister] = vx >> 7

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

func (c *Interpreter) executeKey(in instruction) error {
	key := c.v[in.x]

	switch in.kk() {
	case 0x9E: // skp Vx
		if key >= KeyCount {
			return ErrInvalidKey
		}
		c.skipIf(c.keys[key])

	case 0xA1: // sknp Vx
		if key >= KeyCount {
			return ErrInvalidKey
		}
		c.skipIf(!c.keys[key])

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

func (c *Interpreter) executeMisc(in instruction) error {
	switch in.kk() {
	case 0x07: // ld Vx, DT
		c.v[in.x] = c.delayTimer

	case 0x0A: // ld Vx, K
		c.waitForKey(in.x)

	case 0x15: // ld DT, Vx
		c.delayTimer = c.v[in.x]

	case 0x18: // ld ST, Vx
		c.soundTimer = c.v[in.x]

	case 0x1E: // add I, Vx
		c.i += uint16(c.v[in.x])

	case 0x29: // ld F, Vx
		c.i = uint16(c.v[in.x]) * glyphSize

	case 0x33: // ld B, Vx
		if err := c.checkRange(3); err != nil {
			return err
		}
		value := c.v[in.x]
		c.memory[c.i] = value / 100
		c.memory[c.i+1] = value / 10 % 10
		c.memory[c.i+2] = value % 10

	case 0x55: // ld [I], Vx
		count := int(in.x) + 1
		if err := c.checkRange(count); err != nil {
			return err
		}
		copy(c.memory[c.i:int(c.i)+count], c.v[:count])

	case 0x65: // ld Vx, [I]
		count := int(in.x) + 1
		if err := c.checkRange(count); err != nil {
			return err
		}
		copy(c.v[:count], c.memory[c.i:int(c.i)+count])

	default:
		return ErrUnsupportedOpcode
	}
	return nil
}

// waitForKey stores the lowest pressed key in Vx. If no key is pressed the
// program counter is rewound so that the instruction executes again on the
// next tick.
func (c *Interpreter) waitForKey(x uint8) {
	for key, pressed := range c.keys {
		if pressed {
			c.v[x] = uint8(key)
			return
		}
	}
	c.pc -= 2
}

// draw XORs an n byte sprite from memory at I onto the display at Vx, Vy
// and sets VF on collision.
func (c *Interpreter) draw(in instruction) error {
	rows := int(in.n)
	if err := c.checkRange(rows); err != nil {
		return err
	}
	sprite := c.memory[c.i : int(c.i)+rows]
	collision := c.display.drawSprite(c.v[in.x], c.v[in.y], sprite)
	c.v[FlagRegister] = flag(collision)
	return nil
}

func (c *Interpreter) skipIf(condition bool) {
	if condition {
		c.pc += 2
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
