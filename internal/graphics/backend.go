// Package graphics abstracts the NES's fixed 256x240 RGB frame buffer and
// 8-button-per-port controller input behind a Backend/Window pair, so
// Application can swap Ebitengine (real window + input), headless
// (buffer capture only, for automated runs), and terminal (ANSI art)
// presentation without the rest of the emulator knowing which one is live.
package graphics

// Backend constructs windows for one presentation mode (Ebitengine,
// headless, or terminal) and owns whatever process-wide setup that mode
// needs before a Window can be created.
type Backend interface {
	Initialize(config Config) error

	// CreateWindow creates a window for rendering. Headless backends
	// still return a non-nil Window; it just has no visible surface.
	CreateWindow(title string, width, height int) (Window, error)

	Cleanup() error
	IsHeadless() bool
	GetName() string
}

// Window receives one NES frame buffer at a time and reports input events
// back to the caller; it never reaches into emulator state itself.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool

	// SwapBuffers is a no-op in every backend here: Ebitengine presents
	// from its own Draw loop, and headless and terminal finish their work
	// inside RenderFrame.
	SwapBuffers()

	PollEvents() []InputEvent

	// RenderFrame renders one 256x240 NES frame buffer.
	RenderFrame(frameBuffer [256 * 240]uint32) error

	Cleanup() error
}

// Config configures a Backend's Initialize call: window geometry plus the
// Filter and AspectRatio video settings. Of those two, only the Ebitengine
// backend reads Filter; AspectRatio is carried along but no backend reads
// it, and VideoProcessor takes neither.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	Filter      string // "nearest", "linear"
	AspectRatio string // "4:3", "stretch"

	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type      InputEventType
	Key       Key
	Button    Button
	Pressed   bool
	Modifiers ModifierKey
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key represents keyboard keys
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyJ
	KeyK
	KeyX
	KeyZ
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Button represents controller buttons
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	// Player 2 controller buttons
	Button2A
	Button2B
	Button2Select
	Button2Start
	Button2Up
	Button2Down
	Button2Left
	Button2Right
)

// ModifierKey represents modifier keys
type ModifierKey int

const (
	ModifierNone  ModifierKey = 0
	ModifierShift ModifierKey = 1 << iota
	ModifierCtrl
	ModifierAlt
	ModifierSuper
)

// BackendType selects which Backend implementation CreateBackend builds.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend builds a Backend for backendType, defaulting to
// Ebitengine (the GUI backend) for any value it doesn't recognize.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow type-asserts a Window down to *EbitengineWindow, for
// callers (Application.Run) that need Ebitengine-specific hooks
// (SetEmulatorUpdateFunc) the Window interface doesn't expose.
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	ebitengineWindow, ok := window.(*EbitengineWindow)
	return ebitengineWindow, ok
}