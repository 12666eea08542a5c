//go:build !headless
// +build !headless

package graphics

// Accessors for EbitengineWindow's unexported state, so tests can assert
// on what a real Ebitengine game instance is holding without the backend
// needing to expose any of this through its public Window interface.

// FrameBufferForTesting returns the 256x240 RGB buffer the backing
// EbitengineGame last received through RenderFrame.
func (w *EbitengineWindow) FrameBufferForTesting() [256 * 240]uint32 {
	if w.game == nil {
		return [256 * 240]uint32{}
	}
	return w.game.frameBuffer
}

// GameForTesting returns the EbitengineGame backing this window.
func (w *EbitengineWindow) GameForTesting() *EbitengineGame {
	return w.game
}

// EmulatorUpdateFuncForTesting returns the callback SetEmulatorUpdateFunc
// installed, so a test can invoke it directly without driving a full
// ebiten.Game loop.
func (w *EbitengineWindow) EmulatorUpdateFuncForTesting() func() error {
	return w.emulatorUpdateFunc
}