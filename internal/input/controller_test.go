package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControllerShiftRegisterSerializesLSBFirst(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{true, true, false, false, false, false, false, true}) // A, B, Right

	c.Write(1) // strobe high, continuous reload
	c.Write(0) // strobe low, latch for serial read

	var bits [8]uint8
	for i := range bits {
		bits[i] = c.Read()
	}

	require.Equal(t, [8]uint8{1, 1, 0, 0, 0, 0, 0, 1}, bits)
}

func TestControllerStrobeHighContinuouslyReloads(t *testing.T) {
	c := New()
	c.Write(1) // strobe high
	c.SetButton(ButtonA, true)
	require.Equal(t, uint8(1), c.Read(), "strobe held high should keep reporting live button 0 state")
}

func TestControllerReadAfterExhaustionFillsWithOnes(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{true, false, false, false, false, false, false, false})
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	require.Equal(t, uint8(1), c.Read(), "ninth+ read of an exhausted register returns 1")
}

func TestStateSecondPortOpenBusBitSix(t *testing.T) {
	s := NewState()
	require.Equal(t, uint8(0x40), s.Read(0x4017)&0x40, "$4017 bit 6 is always set")
}

func TestStateStrobeFansOutToBothControllers(t *testing.T) {
	s := NewState()
	s.SetButtons1([8]bool{true, false, false, false, false, false, false, false})
	s.SetButtons2([8]bool{false, true, false, false, false, false, false, false})

	s.Write(0x4016, 1)
	s.Write(0x4016, 0)

	require.Equal(t, uint8(1), s.Read(0x4016)&1)
	require.Equal(t, uint8(0), s.Read(0x4017)&1) // port 2's A bit
	require.Equal(t, uint8(1), s.Read(0x4017)&1) // port 2's B bit
}

func TestControllerResetClearsLatchedState(t *testing.T) {
	c := New()
	c.SetButton(ButtonStart, true)
	c.Write(1)
	c.Reset()
	require.False(t, c.IsPressed(ButtonStart))
	require.Equal(t, uint8(0), c.Read())
}
