package cpu

// executeCB runs a CB-prefixed opcode and returns its cost in M-cycles.
// The CB page is perfectly regular: bits 7-6 select the operation class,
// bits 5-3 the rotate variant or bit number, bits 2-0 the operand register.
func (c *CPU) executeCB(opcode uint8) int {
	reg := opcode & 0x07
	bitNum := opcode >> 3 & 0x07

	cycles := 2
	if reg == 6 { // (HL) operand costs an extra read (and write, except BIT)
		cycles = 4
	}

	switch opcode >> 6 & 0x03 {
	case 0: // rotates and shifts
		value := c.readReg8(reg)
		var result uint8

		switch bitNum {
		case 0:
			result = c.rlc(value)
		case 1:
			result = c.rrc(value)
		case 2:
			result = c.rl(value)
		case 3:
			result = c.rr(value)
		case 4:
			result = c.sla(value)
		case 5:
			result = c.sra(value)
		case 6:
			result = c.swap(value)
		default:
			result = c.srl(value)
		}

		c.writeReg8(reg, result)
		return cycles

	case 1: // BIT b, r - no write-back
		c.bit(c.readReg8(reg), bitNum)
		if reg == 6 {
			return 3
		}
		return 2

	case 2: // RES b, r
		c.writeReg8(reg, c.readReg8(reg)&^(1<<bitNum))
		return cycles

	default: // SET b, r
		c.writeReg8(reg, c.readReg8(reg)|1<<bitNum)
		return cycles
	}
}
