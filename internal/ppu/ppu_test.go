package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCHR struct {
	mem [0x2000]uint8
}

func (c *fakeCHR) ReadCHR(addr uint16) uint8     { return c.mem[addr&0x1FFF] }
func (c *fakeCHR) WriteCHR(addr uint16, v uint8) { c.mem[addr&0x1FFF] = v }

func writeReg(p *PPU, reg uint8, v uint8) { p.WriteRegister(reg, v) }
func readReg(p *PPU, reg uint8) uint8     { return p.ReadRegister(reg) }

func TestPPUADDRAndPPUDATAAutoIncrement(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	writeReg(p, 6, 0x21)
	writeReg(p, 6, 0x08)
	writeReg(p, 7, 0xAA)
	writeReg(p, 7, 0xBB)

	require.Equal(t, uint8(0xAA), p.nametables[p.nametableIndex(0x2108)])
	require.Equal(t, uint8(0xBB), p.nametables[p.nametableIndex(0x2109)])
	require.Equal(t, uint16(0x210A), p.v)
}

func TestPPUSTATUSClearsVBlankAndWriteLatch(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	p.vblank = true

	first := readReg(p, 2)
	require.NotZero(t, first&StatusVBlank)

	second := readReg(p, 2)
	require.Zero(t, second&StatusVBlank)

	writeReg(p, 6, 0x20)
	require.True(t, p.writeLatch)
	writeReg(p, 6, 0x00)
	require.False(t, p.writeLatch)
	require.Equal(t, uint16(0x2000), p.v)
}

func TestPPUDATAReadIsBufferedExceptPalette(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	p.nametables[p.nametableIndex(0x2000)] = 0x55
	writeReg(p, 6, 0x20)
	writeReg(p, 6, 0x00)

	first := readReg(p, 7) // returns stale buffer (0), refills with 0x55
	require.Equal(t, uint8(0), first)
	second := readReg(p, 7)
	require.Equal(t, uint8(0x55), second)

	p.paletteRAM[0] = 0x0F
	writeReg(p, 6, 0x3F)
	writeReg(p, 6, 0x00)
	immediate := readReg(p, 7)
	require.Equal(t, uint8(0x0F), immediate)
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p := New(&fakeCHR{}, 0) // MirrorHorizontal == 0
	writeReg(p, 6, 0x24)
	writeReg(p, 6, 0x10)
	writeReg(p, 7, 0x42)

	writeReg(p, 6, 0x20)
	writeReg(p, 6, 0x10)
	readReg(p, 7)                                // discard stale buffered byte
	require.Equal(t, uint8(0x42), readReg(p, 7)) // mirrored value, refilled by the first read
}

func TestClockAdvancesVBlankAndNMI(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	p.ctrl = CtrlNMIEnable
	p.scanline = 240
	p.dot = 340

	p.Step() // wraps to scanline 241, dot 0
	require.Equal(t, 241, p.scanline)
	require.Equal(t, 0, p.dot)
	require.False(t, p.vblank)

	p.Step() // dot 1: vblank + NMI raised
	require.True(t, p.vblank)
	require.True(t, p.NMIOccurred())
}

func TestPreRenderClearsVBlankAndNMI(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	p.vblank = true
	p.nmiOccurred = true
	p.sprite0Hit = true
	p.spriteOverflow = true
	p.scanline = 261
	p.dot = 0

	p.Step() // dot 0 -> dot 1 lands on the clear condition
	require.False(t, p.vblank)
	require.False(t, p.NMIOccurred())
	require.False(t, p.sprite0Hit)
	require.False(t, p.spriteOverflow)
}

func TestOAMDMAWriteAndReadback(t *testing.T) {
	p := New(&fakeCHR{}, 0)
	p.WriteOAM(10, 0x99)
	writeReg(p, 3, 10)
	require.Equal(t, uint8(0x99), readReg(p, 4))
}
