package chip8

// TickTimers applies one decay step to the delay and sound timers. It
// returns true on the step where the sound timer reaches zero, signalling
// that the host should stop the tone.
func (c *Interpreter) TickTimers() bool {
	if c.delayTimer > 0 {
		c.delayTimer--
	}

	if c.soundTimer == 0 {
		return false
	}
	c.soundTimer--
	return c.soundTimer == 0
}

// SoundShouldPlay returns whether the tone should currently sound.
func (c *Interpreter) SoundShouldPlay() bool {
	return c.soundTimer > 0
}
