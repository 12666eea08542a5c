package cpu

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect // JMP only, carries the page-boundary fetch bug
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// resolveMode maps the 6502's (cc, bbb) bit fields to an addressing mode,
// per the opcode grouping documented in the 6502 instruction matrix. It is
// a pure lookup — it does not touch CPU or bus state. bbb slots that don't
// carry a defined addressing mode for a given cc (single-byte opcodes) are
// never consulted by the dispatcher and return Implied. The branch slot
// (cc=00, bbb=4) returns Relative, though executeBranch resolves its
// operand directly without calling this lookup.
func resolveMode(cc, bbb uint8) AddressingMode {
	switch cc {
	case 0x01:
		switch bbb {
		case 0:
			return IndexedIndirect
		case 1:
			return ZeroPage
		case 2:
			return Immediate
		case 3:
			return Absolute
		case 4:
			return IndirectIndexed
		case 5:
			return ZeroPageX
		case 6:
			return AbsoluteY
		case 7:
			return AbsoluteX
		}
	case 0x02:
		switch bbb {
		case 0:
			return Immediate
		case 1:
			return ZeroPage
		case 2:
			return Accumulator
		case 3:
			return Absolute
		case 5:
			return ZeroPageX
		case 7:
			return AbsoluteX
		}
	case 0x00:
		switch bbb {
		case 0:
			return Immediate
		case 1:
			return ZeroPage
		case 3:
			return Absolute
		case 4:
			return Relative
		case 5:
			return ZeroPageX
		case 7:
			return AbsoluteX
		}
	}
	return Implied
}

// mayAddCycleOnPageCross reports whether mode charges an extra cycle when
// indexing crosses a page boundary on a read. Store instructions always
// pay the indexed-addressing cost regardless of crossing and are accounted
// for separately in the per-opcode cycle table.
func mayAddCycleOnPageCross(mode AddressingMode) bool {
	switch mode {
	case AbsoluteX, AbsoluteY, IndirectIndexed:
		return true
	default:
		return false
	}
}

// resolveOperand consumes 0-2 operand bytes following the opcode,
// advancing PC, and returns the effective address (Accumulator and
// Implied modes carry no address) plus whether indexing crossed a page.
func (c *CPU) resolveOperand(mode AddressingMode) (address uint16, pageCrossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		address = c.PC
		c.PC++
		return address, false

	case ZeroPage:
		address = uint16(c.read(c.PC))
		c.PC++
		return address, false

	case ZeroPageX:
		base := c.read(c.PC)
		c.PC++
		return uint16(base + c.X), false // wraps within page 0 by uint8 overflow

	case ZeroPageY:
		base := c.read(c.PC)
		c.PC++
		return uint16(base + c.Y), false

	case Relative:
		offset := int8(c.read(c.PC))
		c.PC++
		base := c.PC
		target := uint16(int32(base) + int32(offset))
		return target, (base & 0xFF00) != (target & 0xFF00)

	case Absolute:
		address = c.readWord(c.PC)
		c.PC += 2
		return address, false

	case AbsoluteX:
		base := c.readWord(c.PC)
		c.PC += 2
		address = base + uint16(c.X)
		return address, (base & 0xFF00) != (address & 0xFF00)

	case AbsoluteY:
		base := c.readWord(c.PC)
		c.PC += 2
		address = base + uint16(c.Y)
		return address, (base & 0xFF00) != (address & 0xFF00)

	case Indirect:
		ptr := c.readWord(c.PC)
		c.PC += 2
		return c.readWordBuggy(ptr), false

	case IndexedIndirect:
		base := c.read(c.PC)
		c.PC++
		zp := base + c.X // wraps within page 0
		address = uint16(c.read(uint16(zp))) | uint16(c.read(uint16(zp+1)))<<8
		return address, false

	case IndirectIndexed:
		zp := c.read(c.PC)
		c.PC++
		base := uint16(c.read(uint16(zp))) | uint16(c.read(uint16(zp+1)))<<8
		address = base + uint16(c.Y)
		return address, (base & 0xFF00) != (address & 0xFF00)

	default:
		return 0, false
	}
}

// readWord reads a little-endian 16-bit value with no page-wrap bug.
func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return lo | hi<<8
}

// readWordBuggy reproduces the 6502 indirect-JMP hardware bug: when the
// low byte of the pointer sits at the end of a page, the high byte is
// fetched from the start of the SAME page rather than the next one.
func (c *CPU) readWordBuggy(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.read(hiAddr))
	return lo | hi<<8
}
