package cpu

// execute runs a non-CB opcode and returns its cost in M-cycles.
//
// The regular quadrants (LD r,r' and the eight-way ALU block) and the other
// bit-field-shaped groups decode by register code; the irregular opcodes get
// explicit cases. Undefined opcodes execute as NOPs.
//
//nolint:gocognit,gocyclo,cyclop,funlen // opcode decoding is one big table
func (c *CPU) execute(opcode uint8) int {
	// LD r, r' (0x40-0x7F, except 0x76 which is HALT)
	if opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76 {
		src := opcode & 0x07
		dst := opcode >> 3 & 0x07
		c.writeReg8(dst, c.readReg8(src))
		if src == 6 || dst == 6 {
			return 2
		}
		return 1
	}

	// ADD/ADC/SUB/SBC/AND/XOR/OR/CP A, r (0x80-0xBF)
	if opcode >= 0x80 && opcode <= 0xBF {
		return c.executeALU(opcode>>3&0x07, opcode&0x07)
	}

	// Remaining bit-field groups in the 0x00-0x3F quadrant.
	if opcode < 0x40 {
		switch opcode & 0xC7 {
		case 0x04: // INC r
			dst := opcode >> 3 & 0x07
			c.writeReg8(dst, c.inc8(c.readReg8(dst)))
			if dst == 6 {
				return 3
			}
			return 1
		case 0x05: // DEC r
			dst := opcode >> 3 & 0x07
			c.writeReg8(dst, c.dec8(c.readReg8(dst)))
			if dst == 6 {
				return 3
			}
			return 1
		case 0x06: // LD r, n
			dst := opcode >> 3 & 0x07
			c.writeReg8(dst, c.fetchByte())
			if dst == 6 {
				return 3
			}
			return 2
		}
	}

	switch opcode {
	// --- Control ---
	case 0x00: // NOP
		return 1
	case 0x10: // STOP consumes its operand byte and otherwise idles like NOP
		c.fetchByte()
		return 1
	case 0x76: // HALT
		c.halted = true
		return 1

	// --- 16-bit loads ---
	case 0x01: // LD BC, nn
		c.Registers.SetBC(c.fetchWord())
		return 3
	case 0x11: // LD DE, nn
		c.Registers.SetDE(c.fetchWord())
		return 3
	case 0x21: // LD HL, nn
		c.Registers.SetHL(c.fetchWord())
		return 3
	case 0x31: // LD SP, nn
		c.Registers.SP = c.fetchWord()
		return 3
	case 0x08: // LD (nn), SP
		addr := c.fetchWord()
		c.Memory.Write(addr, uint8(c.Registers.SP))      //nolint:gosec // G115: byte extraction
		c.Memory.Write(addr+1, uint8(c.Registers.SP>>8)) //nolint:gosec // G115: byte extraction
		return 5
	case 0xF9: // LD SP, HL
		c.Registers.SP = c.Registers.HL()
		return 2
	case 0xF8: // LD HL, SP+r8
		c.Registers.SetHL(c.addSPOffset(c.fetchByte()))
		return 3

	// --- Stack ---
	case 0xC5: // PUSH BC
		c.push(c.Registers.BC())
		return 4
	case 0xD5: // PUSH DE
		c.push(c.Registers.DE())
		return 4
	case 0xE5: // PUSH HL
		c.push(c.Registers.HL())
		return 4
	case 0xF5: // PUSH AF
		c.push(c.Registers.AF())
		return 4
	case 0xC1: // POP BC
		c.Registers.SetBC(c.pop())
		return 3
	case 0xD1: // POP DE
		c.Registers.SetDE(c.pop())
		return 3
	case 0xE1: // POP HL
		c.Registers.SetHL(c.pop())
		return 3
	case 0xF1: // POP AF (low nibble of F is masked)
		c.Registers.SetAF(c.pop())
		return 3

	// --- 8-bit indirect loads ---
	case 0x02: // LD (BC), A
		c.Memory.Write(c.Registers.BC(), c.Registers.A)
		return 2
	case 0x12: // LD (DE), A
		c.Memory.Write(c.Registers.DE(), c.Registers.A)
		return 2
	case 0x0A: // LD A, (BC)
		c.Registers.A = c.Memory.Read(c.Registers.BC())
		return 2
	case 0x1A: // LD A, (DE)
		c.Registers.A = c.Memory.Read(c.Registers.DE())
		return 2
	case 0x22: // LD (HL+), A
		c.Memory.Write(c.Registers.HL(), c.Registers.A)
		c.Registers.SetHL(c.Registers.HL() + 1)
		return 2
	case 0x32: // LD (HL-), A
		c.Memory.Write(c.Registers.HL(), c.Registers.A)
		c.Registers.SetHL(c.Registers.HL() - 1)
		return 2
	case 0x2A: // LD A, (HL+)
		c.Registers.A = c.Memory.Read(c.Registers.HL())
		c.Registers.SetHL(c.Registers.HL() + 1)
		return 2
	case 0x3A: // LD A, (HL-)
		c.Registers.A = c.Memory.Read(c.Registers.HL())
		c.Registers.SetHL(c.Registers.HL() - 1)
		return 2
	case 0xEA: // LD (nn), A
		c.Memory.Write(c.fetchWord(), c.Registers.A)
		return 4
	case 0xFA: // LD A, (nn)
		c.Registers.A = c.Memory.Read(c.fetchWord())
		return 4

	// --- High-page I/O loads ---
	case 0xE0: // LDH (n), A
		c.Memory.Write(0xFF00+uint16(c.fetchByte()), c.Registers.A)
		return 3
	case 0xF0: // LDH A, (n)
		c.Registers.A = c.Memory.Read(0xFF00 + uint16(c.fetchByte()))
		return 3
	case 0xE2: // LD (C), A
		c.Memory.Write(0xFF00+uint16(c.Registers.C), c.Registers.A)
		return 2
	case 0xF2: // LD A, (C)
		c.Registers.A = c.Memory.Read(0xFF00 + uint16(c.Registers.C))
		return 2

	// --- 16-bit arithmetic ---
	case 0x09: // ADD HL, BC
		c.Registers.SetHL(c.add16(c.Registers.HL(), c.Registers.BC()))
		return 2
	case 0x19: // ADD HL, DE
		c.Registers.SetHL(c.add16(c.Registers.HL(), c.Registers.DE()))
		return 2
	case 0x29: // ADD HL, HL
		c.Registers.SetHL(c.add16(c.Registers.HL(), c.Registers.HL()))
		return 2
	case 0x39: // ADD HL, SP
		c.Registers.SetHL(c.add16(c.Registers.HL(), c.Registers.SP))
		return 2
	case 0x03: // INC BC
		c.Registers.SetBC(c.Registers.BC() + 1)
		return 2
	case 0x13: // INC DE
		c.Registers.SetDE(c.Registers.DE() + 1)
		return 2
	case 0x23: // INC HL
		c.Registers.SetHL(c.Registers.HL() + 1)
		return 2
	case 0x33: // INC SP
		c.Registers.SP++
		return 2
	case 0x0B: // DEC BC
		c.Registers.SetBC(c.Registers.BC() - 1)
		return 2
	case 0x1B: // DEC DE
		c.Registers.SetDE(c.Registers.DE() - 1)
		return 2
	case 0x2B: // DEC HL
		c.Registers.SetHL(c.Registers.HL() - 1)
		return 2
	case 0x3B: // DEC SP
		c.Registers.SP--
		return 2
	case 0xE8: // ADD SP, r8
		c.Registers.SP = c.addSPOffset(c.fetchByte())
		return 4

	// --- Immediate ALU ---
	case 0xC6: // ADD A, n
		c.Registers.A = c.add8(c.Registers.A, c.fetchByte(), false)
		return 2
	case 0xCE: // ADC A, n
		c.Registers.A = c.add8(c.Registers.A, c.fetchByte(), true)
		return 2
	case 0xD6: // SUB n
		c.Registers.A = c.sub8(c.Registers.A, c.fetchByte(), false)
		return 2
	case 0xDE: // SBC A, n
		c.Registers.A = c.sub8(c.Registers.A, c.fetchByte(), true)
		return 2
	case 0xE6: // AND n
		c.Registers.A = c.and(c.fetchByte())
		return 2
	case 0xEE: // XOR n
		c.Registers.A = c.xor(c.fetchByte())
		return 2
	case 0xF6: // OR n
		c.Registers.A = c.or(c.fetchByte())
		return 2
	case 0xFE: // CP n
		c.cp(c.fetchByte())
		return 2

	// --- Accumulator rotates (legacy forms force Z=0) ---
	case 0x07: // RLCA
		c.Registers.A = c.rlc(c.Registers.A)
		c.Registers.ClearFlag(FlagZ)
		return 1
	case 0x0F: // RRCA
		c.Registers.A = c.rrc(c.Registers.A)
		c.Registers.ClearFlag(FlagZ)
		return 1
	case 0x17: // RLA
		c.Registers.A = c.rl(c.Registers.A)
		c.Registers.ClearFlag(FlagZ)
		return 1
	case 0x1F: // RRA
		c.Registers.A = c.rr(c.Registers.A)
		c.Registers.ClearFlag(FlagZ)
		return 1

	// --- Misc ---
	case 0x27: // DAA
		c.daa()
		return 1
	case 0x2F: // CPL
		c.Registers.A = ^c.Registers.A
		c.Registers.SetFlag(FlagN)
		c.Registers.SetFlag(FlagH)
		return 1
	case 0x37: // SCF
		c.Registers.ClearFlag(FlagN)
		c.Registers.ClearFlag(FlagH)
		c.Registers.SetFlag(FlagC)
		return 1
	case 0x3F: // CCF
		c.Registers.ClearFlag(FlagN)
		c.Registers.ClearFlag(FlagH)
		c.Registers.SetFlagTo(FlagC, !c.Registers.CarryFlag())
		return 1
	case 0xF3: // DI
		c.IME = false
		return 1
	case 0xFB: // EI
		c.IME = true
		return 1

	// --- Relative jumps ---
	case 0x18: // JR n
		return c.jr(true)
	case 0x20: // JR NZ, n
		return c.jr(c.checkCondition(0))
	case 0x28: // JR Z, n
		return c.jr(c.checkCondition(1))
	case 0x30: // JR NC, n
		return c.jr(c.checkCondition(2))
	case 0x38: // JR C, n
		return c.jr(c.checkCondition(3))

	// --- Absolute jumps ---
	case 0xC3: // JP nn
		c.Registers.PC = c.fetchWord()
		return 4
	case 0xE9: // JP HL
		c.Registers.PC = c.Registers.HL()
		return 1
	case 0xC2: // JP NZ, nn
		return c.jp(c.checkCondition(0))
	case 0xCA: // JP Z, nn
		return c.jp(c.checkCondition(1))
	case 0xD2: // JP NC, nn
		return c.jp(c.checkCondition(2))
	case 0xDA: // JP C, nn
		return c.jp(c.checkCondition(3))

	// --- Calls ---
	case 0xCD: // CALL nn
		return c.call(true)
	case 0xC4: // CALL NZ, nn
		return c.call(c.checkCondition(0))
	case 0xCC: // CALL Z, nn
		return c.call(c.checkCondition(1))
	case 0xD4: // CALL NC, nn
		return c.call(c.checkCondition(2))
	case 0xDC: // CALL C, nn
		return c.call(c.checkCondition(3))

	// --- Returns ---
	case 0xC9: // RET
		c.Registers.PC = c.pop()
		return 4
	case 0xD9: // RETI
		c.Registers.PC = c.pop()
		c.IME = true
		return 4
	case 0xC0: // RET NZ
		return c.ret(c.checkCondition(0))
	case 0xC8: // RET Z
		return c.ret(c.checkCondition(1))
	case 0xD0: // RET NC
		return c.ret(c.checkCondition(2))
	case 0xD8: // RET C
		return c.ret(c.checkCondition(3))

	// --- Restart vectors ---
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		c.push(c.Registers.PC)
		c.Registers.PC = uint16(opcode & 0x38)
		return 4

	default:
		// Undefined opcodes (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC,
		// 0xED, 0xF4, 0xFC, 0xFD) execute as NOPs.
		return 1
	}
}

// executeALU dispatches the eight-way arithmetic block against A.
func (c *CPU) executeALU(op, src uint8) int {
	value := c.readReg8(src)

	switch op {
	case 0: // ADD
		c.Registers.A = c.add8(c.Registers.A, value, false)
	case 1: // ADC
		c.Registers.A = c.add8(c.Registers.A, value, true)
	case 2: // SUB
		c.Registers.A = c.sub8(c.Registers.A, value, false)
	case 3: // SBC
		c.Registers.A = c.sub8(c.Registers.A, value, true)
	case 4: // AND
		c.Registers.A = c.and(value)
	case 5: // XOR
		c.Registers.A = c.xor(value)
	case 6: // OR
		c.Registers.A = c.or(value)
	default: // CP
		c.cp(value)
	}

	if src == 6 {
		return 2
	}
	return 1
}

// jr fetches the signed displacement and branches when cond holds.
func (c *CPU) jr(cond bool) int {
	offset := int8(c.fetchByte()) //nolint:gosec // G115: displacement is signed
	if !cond {
		return 2
	}
	c.Registers.PC = uint16(int32(c.Registers.PC) + int32(offset)) //nolint:gosec // G115: 16-bit wraparound wanted
	return 3
}

// jp fetches the target and branches when cond holds.
func (c *CPU) jp(cond bool) int {
	addr := c.fetchWord()
	if !cond {
		return 3
	}
	c.Registers.PC = addr
	return 4
}

// call fetches the target, then pushes the return address and branches when
// cond holds.
func (c *CPU) call(cond bool) int {
	addr := c.fetchWord()
	if !cond {
		return 3
	}
	c.push(c.Registers.PC)
	c.Registers.PC = addr
	return 6
}

// ret pops the return address when cond holds.
func (c *CPU) ret(cond bool) int {
	if !cond {
		return 2
	}
	c.Registers.PC = c.pop()
	return 4
}
