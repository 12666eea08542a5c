package cpu

// baseCycles holds the fixed per-opcode cycle cost before any page-cross
// or branch-taken adjustment. Slots for opcodes not implemented (illegal/
// unofficial 6502 instructions, out of scope) carry a 2-cycle NOP-shaped
// filler; execute never legitimately reaches them from a well-formed ROM.
var baseCycles = [256]int{
	0x00: 7, 0x01: 6, 0x02: 2, 0x03: 2, 0x04: 2, 0x05: 3, 0x06: 5, 0x07: 2,
	0x08: 3, 0x09: 2, 0x0A: 2, 0x0B: 2, 0x0C: 2, 0x0D: 4, 0x0E: 6, 0x0F: 2,
	0x10: 2, 0x11: 5, 0x12: 2, 0x13: 2, 0x14: 2, 0x15: 4, 0x16: 6, 0x17: 2,
	0x18: 2, 0x19: 4, 0x1A: 2, 0x1B: 2, 0x1C: 2, 0x1D: 4, 0x1E: 7, 0x1F: 2,
	0x20: 6, 0x21: 6, 0x22: 2, 0x23: 2, 0x24: 3, 0x25: 3, 0x26: 5, 0x27: 2,
	0x28: 4, 0x29: 2, 0x2A: 2, 0x2B: 2, 0x2C: 4, 0x2D: 4, 0x2E: 6, 0x2F: 2,
	0x30: 2, 0x31: 5, 0x32: 2, 0x33: 2, 0x34: 2, 0x35: 4, 0x36: 6, 0x37: 2,
	0x38: 2, 0x39: 4, 0x3A: 2, 0x3B: 2, 0x3C: 2, 0x3D: 4, 0x3E: 7, 0x3F: 2,
	0x40: 6, 0x41: 6, 0x42: 2, 0x43: 2, 0x44: 2, 0x45: 3, 0x46: 5, 0x47: 2,
	0x48: 3, 0x49: 2, 0x4A: 2, 0x4B: 2, 0x4C: 3, 0x4D: 4, 0x4E: 6, 0x4F: 2,
	0x50: 2, 0x51: 5, 0x52: 2, 0x53: 2, 0x54: 2, 0x55: 4, 0x56: 6, 0x57: 2,
	0x58: 2, 0x59: 4, 0x5A: 2, 0x5B: 2, 0x5C: 2, 0x5D: 4, 0x5E: 7, 0x5F: 2,
	0x60: 6, 0x61: 6, 0x62: 2, 0x63: 2, 0x64: 2, 0x65: 3, 0x66: 5, 0x67: 2,
	0x68: 4, 0x69: 2, 0x6A: 2, 0x6B: 2, 0x6C: 5, 0x6D: 4, 0x6E: 6, 0x6F: 2,
	0x70: 2, 0x71: 5, 0x72: 2, 0x73: 2, 0x74: 2, 0x75: 4, 0x76: 6, 0x77: 2,
	0x78: 2, 0x79: 4, 0x7A: 2, 0x7B: 2, 0x7C: 2, 0x7D: 4, 0x7E: 7, 0x7F: 2,
	0x80: 2, 0x81: 6, 0x82: 2, 0x83: 2, 0x84: 3, 0x85: 3, 0x86: 3, 0x87: 2,
	0x88: 2, 0x89: 2, 0x8A: 2, 0x8B: 2, 0x8C: 4, 0x8D: 4, 0x8E: 4, 0x8F: 2,
	0x90: 2, 0x91: 6, 0x92: 2, 0x93: 2, 0x94: 4, 0x95: 4, 0x96: 4, 0x97: 2,
	0x98: 2, 0x99: 5, 0x9A: 2, 0x9B: 2, 0x9C: 2, 0x9D: 5, 0x9E: 2, 0x9F: 2,
	0xA0: 2, 0xA1: 6, 0xA2: 2, 0xA3: 2, 0xA4: 3, 0xA5: 3, 0xA6: 3, 0xA7: 2,
	0xA8: 2, 0xA9: 2, 0xAA: 2, 0xAB: 2, 0xAC: 4, 0xAD: 4, 0xAE: 4, 0xAF: 2,
	0xB0: 2, 0xB1: 5, 0xB2: 2, 0xB3: 2, 0xB4: 4, 0xB5: 4, 0xB6: 4, 0xB7: 2,
	0xB8: 2, 0xB9: 4, 0xBA: 2, 0xBB: 2, 0xBC: 4, 0xBD: 4, 0xBE: 4, 0xBF: 2,
	0xC0: 2, 0xC1: 6, 0xC2: 2, 0xC3: 2, 0xC4: 3, 0xC5: 3, 0xC6: 5, 0xC7: 2,
	0xC8: 2, 0xC9: 2, 0xCA: 2, 0xCB: 2, 0xCC: 4, 0xCD: 4, 0xCE: 6, 0xCF: 2,
	0xD0: 2, 0xD1: 5, 0xD2: 2, 0xD3: 2, 0xD4: 2, 0xD5: 4, 0xD6: 6, 0xD7: 2,
	0xD8: 2, 0xD9: 4, 0xDA: 2, 0xDB: 2, 0xDC: 2, 0xDD: 4, 0xDE: 7, 0xDF: 2,
	0xE0: 2, 0xE1: 6, 0xE2: 2, 0xE3: 2, 0xE4: 3, 0xE5: 3, 0xE6: 5, 0xE7: 2,
	0xE8: 2, 0xE9: 2, 0xEA: 2, 0xEB: 2, 0xEC: 4, 0xED: 4, 0xEE: 6, 0xEF: 2,
	0xF0: 2, 0xF1: 5, 0xF2: 2, 0xF3: 2, 0xF4: 2, 0xF5: 4, 0xF6: 6, 0xF7: 2,
	0xF8: 2, 0xF9: 4, 0xFA: 2, 0xFB: 2, 0xFC: 2, 0xFD: 4, 0xFE: 7, 0xFF: 2,
}

const (
	opBRK = 0x00
	opJSR = 0x20
	opRTI = 0x40
	opRTS = 0x60

	opPHP = 0x08
	opPLP = 0x28
	opPHA = 0x48
	opPLA = 0x68

	opCLC = 0x18
	opSEC = 0x38
	opCLI = 0x58
	opSEI = 0x78
	opCLV = 0xB8
	opCLD = 0xD8
	opSED = 0xF8

	opDEY = 0x88
	opTYA = 0x98
	opTAY = 0xA8

	opTXA = 0x8A
	opTXS = 0x9A
	opTAX = 0xAA
	opTSX = 0xBA
	opDEX = 0xCA
	opINX = 0xE8
	opINY = 0xC8
	opNOP = 0xEA
)

// executeSingleByte handles implicit/transfer/stack/branch-target opcodes
// matched by full opcode value, before the generic (aaa, bbb, cc) decode
// table is consulted. Returns ok=false for anything it doesn't recognize.
func (c *CPU) executeSingleByte(opcode uint8) (cycles int, ok bool) {
	switch opcode {
	case opBRK:
		c.PC++
		c.pushWord(c.PC)
		c.push(c.Status | Placeholder | Break)
		c.SetFlag(InterruptDisable, true)
		lo := uint16(c.read(0xFFFE))
		hi := uint16(c.read(0xFFFF))
		c.PC = lo | hi<<8
		return baseCycles[opcode], true

	case opJSR:
		addr, _ := c.resolveOperand(Absolute)
		c.pushWord(c.PC - 1)
		c.PC = addr
		return baseCycles[opcode], true

	case opRTI:
		c.Status = (c.pull() | Placeholder) &^ Break
		c.PC = c.pullWord()
		return baseCycles[opcode], true

	case opRTS:
		c.PC = c.pullWord() + 1
		return baseCycles[opcode], true

	case opPHP:
		c.push(c.Status | Placeholder | Break)
		return baseCycles[opcode], true

	case opPLP:
		c.Status = (c.pull() | Placeholder) &^ Break
		return baseCycles[opcode], true

	case opPHA:
		c.push(c.A)
		return baseCycles[opcode], true

	case opPLA:
		c.A = c.pull()
		c.setZN(c.A)
		return baseCycles[opcode], true

	case opCLC:
		c.SetFlag(Carry, false)
	case opSEC:
		c.SetFlag(Carry, true)
	case opCLI:
		c.SetFlag(InterruptDisable, false)
	case opSEI:
		c.SetFlag(InterruptDisable, true)
	case opCLV:
		c.SetFlag(Overflow, false)
	case opCLD:
		c.SetFlag(Decimal, false)
	case opSED:
		c.SetFlag(Decimal, true)

	case opTAX:
		c.X = c.A
		c.setZN(c.X)
	case opTAY:
		c.Y = c.A
		c.setZN(c.Y)
	case opTSX:
		c.X = c.SP
		c.setZN(c.X)
	case opTXA:
		c.A = c.X
		c.setZN(c.A)
	case opTXS:
		c.SP = c.X
	case opTYA:
		c.A = c.Y
		c.setZN(c.A)

	case opDEX:
		c.X--
		c.setZN(c.X)
	case opDEY:
		c.Y--
		c.setZN(c.Y)
	case opINX:
		c.X++
		c.setZN(c.X)
	case opINY:
		c.Y++
		c.setZN(c.Y)

	case opNOP:
		// no-op

	default:
		return 0, false
	}

	return baseCycles[opcode], true
}
