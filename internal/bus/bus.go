// Package bus implements the NES system bus: CPU-visible address decoding,
// OAM DMA, and the NMI rising-edge latch that couples the CPU to the PPU's
// vblank clock. The Bus exclusively owns the PPU and cartridge; neither
// holds a reference back to it (the CPU it creates reaches it only through
// the cpu.Bus interface). The $4000-$4017 APU/controller range
// is, per the address map, a stub: the Bus keeps an APU for register
// bookkeeping but does not own or consult controller state at all, since
// controller input is an out-of-scope external collaborator.
package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/ppu"
)

// Bus wires the 6502 CPU to PPU registers, the stubbed APU/controller
// range, 2KiB of CPU RAM, and the cartridge's PRG-ROM window, per the
// fixed $0000-$FFFF address map.
type Bus struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	cart *cartridge.Cartridge
	ram  [0x0800]uint8

	nmiPending bool
}

// New creates a Bus with no cartridge loaded. LoadCartridge must be called
// before Reset to bring up the PPU, which needs the cartridge's CHR memory
// and mirroring mode to construct.
func New() *Bus {
	b := &Bus{APU: apu.New()}
	b.CPU = cpu.New(b)
	return b
}

// LoadCartridge installs cart and (re)creates the PPU bound to its CHR
// memory and mirroring mode.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.PPU = ppu.New(cart, cart.MirrorMode())
}

// Reset returns every owned component to its power-up state.
func (b *Bus) Reset() {
	b.ram = [0x0800]uint8{}
	b.nmiPending = false
	b.APU.Reset()
	if b.PPU != nil {
		b.PPU.Reset()
	}
	b.CPU.Reset()
}

// Read services a CPU read of the full 16-bit address space.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&0x07FF]
	case address < 0x4000:
		return b.PPU.ReadRegister(uint8(address & 0x0007))
	case address == 0x4015:
		return b.APU.ReadStatus()
	case address < 0x4018:
		return 0 // stubbed APU/controller register range ($4016/$4017 included)
	default:
		if b.cart == nil {
			return 0
		}
		return b.cart.ReadPRG(address)
	}
}

// Write services a CPU write of the full 16-bit address space.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value
	case address < 0x4000:
		b.PPU.WriteRegister(uint8(address&0x0007), value)
	case address == 0x4014:
		b.triggerOAMDMA(value)
	case address < 0x4018:
		b.APU.Write(address, value) // $4016 lands here too: accepted, no effect
	default:
		if b.cart != nil {
			b.cart.WritePRG(address, value)
		}
	}
}

// triggerOAMDMA copies 256 bytes from $XX00-$XXFF into OAM, starting at
// the PPU's current OAMADDR and wrapping, then stalls the CPU for the
// 513 (even start cycle) or 514 (odd start cycle) cycles real NES
// hardware spends suspended during the transfer.
func (b *Bus) triggerOAMDMA(page uint8) {
	base := uint16(page) << 8
	start := b.PPU.OAMAddr()
	for i := 0; i < 256; i++ {
		value := b.Read(base + uint16(i))
		b.PPU.WriteOAM(start+uint8(i), value)
	}

	cycles := 513
	if b.CPU.TotalCycles%2 != 0 {
		cycles = 514
	}
	b.CPU.Stall(cycles)
}

// NMIPending satisfies cpu.Bus: it reports whether a rising edge of the
// PPU's NMI-occurred flag has been latched since the last clear.
func (b *Bus) NMIPending() bool { return b.nmiPending }

// ClearNMIPending satisfies cpu.Bus, consuming the latched NMI edge.
func (b *Bus) ClearNMIPending() { b.nmiPending = false }

// Advance satisfies cpu.Bus: it steps the PPU one dot at a time, latching
// a rising edge of NMIOccurred as it crosses rather than sampling only at
// the end of the batch, so an edge that rises and falls within a single
// Advance call is never missed.
func (b *Bus) Advance(dots int) {
	if b.PPU == nil {
		return
	}
	for i := 0; i < dots; i++ {
		before := b.PPU.NMIOccurred()
		b.PPU.Step()
		after := b.PPU.NMIOccurred()
		if after && !before {
			b.nmiPending = true
		}
	}
}

// Step advances the system by exactly one CPU cycle (three PPU dots).
func (b *Bus) Step() {
	b.CPU.Step()
}

// GetCycleCount returns the total number of CPU cycles executed since the
// last Reset.
func (b *Bus) GetCycleCount() uint64 { return b.CPU.TotalCycles }

// GetFrameCount returns the number of PPU frames rendered since Reset.
func (b *Bus) GetFrameCount() uint64 {
	if b.PPU == nil {
		return 0
	}
	return b.PPU.FrameCount()
}

// GetFrameBuffer returns the current 256x240 RGB frame buffer.
func (b *Bus) GetFrameBuffer() []uint32 {
	if b.PPU == nil {
		return make([]uint32, 256*240)
	}
	return b.PPU.FrameBuffer()
}

// GetAudioSamples returns the current batch of synthesized audio samples.
// Audio synthesis is a non-goal, so this is always empty.
func (b *Bus) GetAudioSamples() []float32 { return nil }

// CPUFlags reports the seven user-visible 6502 status flags individually,
// for callers (like save states) that find a struct of bools more
// convenient than the packed status byte.
type CPUFlags struct {
	N, V, B, D, I, Z, C bool
}

// CPUState is a snapshot of CPU register state for debugging and save
// states.
type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	Status  uint8
	Cycles  uint64
	Flags   CPUFlags
}

// GetCPUState snapshots the current CPU registers.
func (b *Bus) GetCPUState() CPUState {
	c := b.CPU
	return CPUState{
		PC:     c.PC,
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		SP:     c.SP,
		Status: c.Status,
		Cycles: c.TotalCycles,
		Flags: CPUFlags{
			N: c.Status&cpu.Negative != 0,
			V: c.Status&cpu.Overflow != 0,
			B: c.Status&cpu.Break != 0,
			D: c.Status&cpu.Decimal != 0,
			I: c.Status&cpu.InterruptDisable != 0,
			Z: c.Status&cpu.Zero != 0,
			C: c.Status&cpu.Carry != 0,
		},
	}
}

// PPUState is a snapshot of PPU clock/rendering state for debugging and
// save states.
type PPUState struct {
	Scanline    int
	Cycle       int
	FrameCount  uint64
	VBlankFlag  bool
	RenderingOn bool
	NMIEnabled  bool
}

// GetPPUState snapshots the current PPU clock state.
func (b *Bus) GetPPUState() PPUState {
	if b.PPU == nil {
		return PPUState{}
	}
	return PPUState{
		Scanline:    b.PPU.Scanline(),
		Cycle:       b.PPU.Dot(),
		FrameCount:  b.PPU.FrameCount(),
		VBlankFlag:  b.PPU.VBlank(),
		RenderingOn: b.PPU.RenderingEnabled(),
		NMIEnabled:  b.PPU.NMIEnabled(),
	}
}

// SetCPUState restores CPU registers from a snapshot taken by GetCPUState,
// for save-state loading. TotalCycles is restored too, so cycle-counted
// logging stays monotonic across a load.
func (b *Bus) SetCPUState(state CPUState) {
	b.CPU.PC = state.PC
	b.CPU.A = state.A
	b.CPU.X = state.X
	b.CPU.Y = state.Y
	b.CPU.SP = state.SP
	b.CPU.Status = state.Status
	b.CPU.TotalCycles = state.Cycles
}

// GetRAM returns a copy of the 2KiB internal RAM, for save-state capture.
func (b *Bus) GetRAM() [0x0800]uint8 { return b.ram }

// SetRAM restores the 2KiB internal RAM from a save-state snapshot.
func (b *Bus) SetRAM(ram [0x0800]uint8) { b.ram = ram }
