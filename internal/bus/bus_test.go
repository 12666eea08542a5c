package bus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/cartridge"
)

// buildNROM assembles a minimal one-bank iNES image with the reset vector
// pointed at 0x8000 and PRG filled with NOPs, for tests that only care
// about bus wiring rather than program behavior.
func buildNROM(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A})
	buf.WriteByte(1) // 1x16KiB PRG
	buf.WriteByte(1) // 1x8KiB CHR
	buf.WriteByte(0) // flags6: horizontal mirroring, mapper low nibble 0
	buf.WriteByte(0) // flags7
	buf.Write(make([]byte, 8))

	prg := make([]byte, 16*1024)
	for i := range prg {
		prg[i] = 0xEA // NOP
	}
	prg[0x3FFC] = 0x00 // reset vector low -> 0x8000
	prg[0x3FFD] = 0x80
	buf.Write(prg)
	buf.Write(make([]byte, 8*1024)) // CHR-ROM

	cart, err := cartridge.LoadFromReader(&buf)
	require.NoError(t, err)
	return cart
}

func newTestBus(t *testing.T) *Bus {
	b := New()
	b.LoadCartridge(buildNROM(t))
	b.Reset()
	return b
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x42)
	require.Equal(t, uint8(0x42), b.Read(0x0800))
	require.Equal(t, uint8(0x42), b.Read(0x1000))
	require.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x2000, 0x80) // PPUCTRL, NMI enable
	require.True(t, b.PPU.NMIEnabled())

	b.Write(0x2008, 0x00) // mirrors $2000 (0x2008 & 7 == 0)
	require.False(t, b.PPU.NMIEnabled())

	b.Write(0x3FF8, 0x80) // still mirrors $2000 (0x3FF8 & 7 == 0)
	require.True(t, b.PPU.NMIEnabled())
}

func TestCartridgeDelegationBoundary(t *testing.T) {
	b := newTestBus(t)
	require.Equal(t, uint8(0xEA), b.Read(0x8000))
	require.Equal(t, uint8(0xEA), b.Read(0xC000)) // mirrored single bank
}

func TestStubbedAPURangeReturnsZero(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x4000, 0xFF) // accepted by the APU stub, has no external effect
	require.Equal(t, uint8(0), b.Read(0x4000))
}

// TestControllerPortsAreStubbed pins down that $4016/$4017 fall into the
// same literal stub as the rest of $4000-$4017: the Bus does not own or
// consult live controller state, since controller input is an out-of-scope
// external collaborator per the address map.
func TestControllerPortsAreStubbed(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x4016, 1)
	require.Equal(t, uint8(0), b.Read(0x4016))
	require.Equal(t, uint8(0), b.Read(0x4017))
}

func TestOAMDMACopiesPageIntoOAM(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 256; i++ {
		b.Write(0x0300+uint16(i), uint8(i))
	}

	b.Write(0x4014, 0x03) // DMA from page 3, starting at OAMADDR (0 after Reset)

	b.PPU.WriteRegister(3, 0)
	require.Equal(t, uint8(0), b.PPU.ReadRegister(4))
	b.PPU.WriteRegister(3, 5)
	require.Equal(t, uint8(5), b.PPU.ReadRegister(4))
	b.PPU.WriteRegister(3, 255)
	require.Equal(t, uint8(255), b.PPU.ReadRegister(4))
}

func TestNMIRisingEdgeLatchedAcrossVBlank(t *testing.T) {
	b := newTestBus(t)
	b.PPU.WriteRegister(0, 0x80) // PPUCTRL NMI enable
	b.PPU.Reset()
	b.PPU.WriteRegister(0, 0x80)

	require.False(t, b.NMIPending())

	// Drive the PPU to just before the vblank/NMI dot.
	for b.PPU.Scanline() != 241 || b.PPU.Dot() != 0 {
		b.Advance(1)
	}
	b.Advance(1) // dot 1: vblank set, NMI latched

	require.True(t, b.NMIPending())
	b.ClearNMIPending()
	require.False(t, b.NMIPending())
}
