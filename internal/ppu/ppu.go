// Package ppu implements the NES Picture Processing Unit (2C02): its
// memory-mapped register file, dot/scanline clock, and pixel pipeline.
package ppu

import "gones/internal/cartridge"

// Register bit masks.
const (
	CtrlNMIEnable          uint8 = 0x80
	CtrlSpriteHeight       uint8 = 0x20
	CtrlBackgroundPatTable uint8 = 0x10
	CtrlSpritePatTable     uint8 = 0x08
	CtrlIncrement32        uint8 = 0x04
	CtrlBaseNametable      uint8 = 0x03

	MaskShowBackgroundLeft uint8 = 0x02
	MaskShowSpritesLeft    uint8 = 0x04
	MaskShowBackground     uint8 = 0x08
	MaskShowSprites        uint8 = 0x10

	StatusVBlank         uint8 = 0x80
	StatusSprite0Hit     uint8 = 0x40
	StatusSpriteOverflow uint8 = 0x20
)

// CHRMemory is the cartridge's pattern-table collaborator.
type CHRMemory interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// PPU is the 2C02 pixel engine. It is owned exclusively by the Bus.
type PPU struct {
	ctrl uint8
	mask uint8

	vblank         bool
	sprite0Hit     bool
	spriteOverflow bool
	nmiOccurred    bool

	latch uint8 // shared data-bus latch

	oamAddr uint8
	oam     [256]uint8

	v          uint16 // current VRAM address
	addrHigh   uint8  // latched high byte during a two-write PPUADDR sequence
	writeLatch bool
	readBuffer uint8

	scrollX, scrollY uint8

	nametables [0x1000]uint8 // generously sized per the §4.4 mirroring formula
	paletteRAM [32]uint8

	dot        int
	scanline   int
	frameCount uint64

	frameBuffer [256 * 240]uint32

	chr    CHRMemory
	mirror cartridge.Mirror
}

// New creates a PPU reading pattern data from chr with the given mirroring.
func New(chr CHRMemory, mirror cartridge.Mirror) *PPU {
	return &PPU{chr: chr, mirror: mirror}
}

// Reset returns the PPU to its power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.vblank, p.sprite0Hit, p.spriteOverflow, p.nmiOccurred = false, false, false, false
	p.latch = 0
	p.oamAddr = 0
	p.oam = [256]uint8{}
	p.v, p.addrHigh = 0, 0
	p.writeLatch = false
	p.readBuffer = 0
	p.scrollX, p.scrollY = 0, 0
	p.dot, p.scanline = 0, 0
	p.frameCount = 0
}

// NMIOccurred reports the PPU's latched NMI-occurred flag, sampled by the
// Bus to detect the rising edge that triggers the CPU's NMI sequence.
func (p *PPU) NMIOccurred() bool { return p.nmiOccurred }

// FrameBuffer returns the current 256x240 RGB frame buffer.
func (p *PPU) FrameBuffer() []uint32 { return p.frameBuffer[:] }

// FrameCount returns the number of frames rendered since Reset.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// WriteOAM writes a single OAM byte, used by the Bus's OAM DMA handler.
func (p *PPU) WriteOAM(offset uint8, value uint8) { p.oam[offset] = value }

// OAMAddr returns the current OAMADDR register, the starting offset for a
// DMA transfer.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

// ReadRegister services a CPU read of $2000-$2007 (already reduced to its
// low 3 bits by the Bus's mirroring). Reading any write-only register
// returns the shared data-bus latch; reading returns also refresh it.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg & 0x07 {
	case 2: // PPUSTATUS
		value := (p.latch & 0x1F)
		if p.vblank {
			value |= StatusVBlank
		}
		if p.sprite0Hit {
			value |= StatusSprite0Hit
		}
		if p.spriteOverflow {
			value |= StatusSpriteOverflow
		}
		p.vblank = false
		p.writeLatch = false
		p.latch = value
		return value

	case 4: // OAMDATA
		value := p.oam[p.oamAddr]
		p.latch = value
		return value

	case 7: // PPUDATA
		return p.readData()

	default: // write-only registers return open-bus latch
		return p.latch
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(reg uint8, value uint8) {
	p.latch = value

	switch reg & 0x07 {
	case 0: // PPUCTRL
		p.ctrl = value
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.writeLatch {
			p.scrollX = value
		} else {
			p.scrollY = value
		}
		p.writeLatch = !p.writeLatch
	case 6: // PPUADDR
		if !p.writeLatch {
			p.addrHigh = value & 0x3F
		} else {
			p.v = (uint16(p.addrHigh)<<8 | uint16(value)) & 0x3FFF
		}
		p.writeLatch = !p.writeLatch
	case 7: // PPUDATA
		p.writeData(value)
	}
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&CtrlIncrement32 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var value uint8
	if addr >= 0x3F00 {
		value = p.readPalette(addr)
		p.readBuffer = p.readVRAM(addr - 0x1000)
	} else {
		value = p.readBuffer
		p.readBuffer = p.readVRAM(addr)
	}
	p.v += p.vramIncrement()
	p.latch = value
	return value
}

func (p *PPU) writeData(value uint8) {
	p.writeVRAM(p.v&0x3FFF, value)
	p.v += p.vramIncrement()
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.chr.ReadCHR(addr)
	case addr < 0x3F00:
		return p.nametables[p.nametableIndex(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.chr.WriteCHR(addr, value)
	case addr < 0x3F00:
		p.nametables[p.nametableIndex(addr)] = value
	default:
		p.writePalette(addr, value)
	}
}

// nametableIndex implements the exact §4.4 mirroring rule.
func (p *PPU) nametableIndex(addr uint16) uint16 {
	a := addr & 0x2FFF
	table := (a - 0x2000) / 0x400
	switch p.mirror {
	case cartridge.MirrorHorizontal:
		if table == 1 || table == 3 {
			a -= 0x400
		}
	case cartridge.MirrorVertical:
		if table == 2 || table == 3 {
			a -= 0x800
		}
	}
	return a - 0x2000
}

func (p *PPU) paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

func (p *PPU) readPalette(addr uint16) uint8 {
	p.latch = p.paletteRAM[p.paletteIndex(addr)]
	return p.latch
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.paletteRAM[p.paletteIndex(addr)] = value & 0x3F
}

// Step advances the PPU clock by one dot, handling vblank/NMI edges and
// rendering each visible scanline as it is reached. The dot-1 events fire
// on the tick that moves the clock from dot 0 onto dot 1, so they are in
// effect as soon as Step leaves the PPU at dot 1.
func (p *PPU) Step() {
	if p.scanline >= 0 && p.scanline <= 239 && p.dot == 0 {
		p.renderScanline(p.scanline)
	}

	if p.scanline == 241 && p.dot == 0 {
		p.vblank = true
		if p.ctrl&CtrlNMIEnable != 0 {
			p.nmiOccurred = true
		}
	}

	if p.scanline == 261 && p.dot == 0 {
		p.vblank = false
		p.nmiOccurred = false
		p.sprite0Hit = false
		p.spriteOverflow = false
	}

	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frameCount++
		}
	}
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(MaskShowBackground|MaskShowSprites) != 0
}

// RenderingEnabled reports whether either background or sprite rendering
// is currently switched on in PPUMASK.
func (p *PPU) RenderingEnabled() bool { return p.renderingEnabled() }

// Scanline returns the current scanline (0-261).
func (p *PPU) Scanline() int { return p.scanline }

// Dot returns the current dot within the scanline (0-340).
func (p *PPU) Dot() int { return p.dot }

// VBlank reports the raw PPUSTATUS vblank flag.
func (p *PPU) VBlank() bool { return p.vblank }

// NMIEnabled reports whether PPUCTRL's NMI-enable bit is set.
func (p *PPU) NMIEnabled() bool { return p.ctrl&CtrlNMIEnable != 0 }

// Mirror returns the cartridge's nametable mirroring mode.
func (p *PPU) Mirror() cartridge.Mirror { return p.mirror }
