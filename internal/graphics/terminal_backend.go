package graphics

import "fmt"

// TerminalBackend renders to an ANSI terminal: no real window, but (unlike
// HeadlessBackend) RenderFrame produces visible output, useful for a
// quick look at what's on screen over SSH without an X11/Wayland display.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow satisfies Window by drawing a downsampled ASCII
// approximation of the frame buffer directly to stdout.
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
}

// NewTerminalBackend creates a terminal graphics backend.
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &TerminalWindow{title: title, width: width, height: height, running: true}, nil
}

func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *TerminalBackend) IsHeadless() bool { return false }
func (b *TerminalBackend) GetName() string  { return "Terminal" }

// SetTitle sets both the cached title and the terminal's own title (via
// the OSC 0 escape sequence), so a terminal multiplexer tab picks it up.
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Printf("\033]0;%s\007", title)
}

func (w *TerminalWindow) GetSize() (width, height int) { return w.width, w.height }
func (w *TerminalWindow) ShouldClose() bool            { return !w.running }
func (w *TerminalWindow) SwapBuffers()                 {}
func (w *TerminalWindow) PollEvents() []InputEvent     { return nil }

// ramp is a luminance-ordered ASCII gradient, darkest to brightest.
const ramp = " .:-=+*#%@"

// RenderFrame clears the screen and draws a coarse character-art
// approximation of the frame buffer: one character per 4x8 pixel block,
// shaded by that pixel's approximate luminance rather than a flat on/off
// threshold, so silhouettes are at least roughly readable.
func (w *TerminalWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	fmt.Print("\033[2J\033[H")

	for y := 0; y < 240; y += 8 {
		for x := 0; x < 256; x += 4 {
			pixel := frameBuffer[y*256+x]
			r := float64((pixel >> 16) & 0xFF)
			g := float64((pixel >> 8) & 0xFF)
			b := float64(pixel & 0xFF)
			luma := 0.299*r + 0.587*g + 0.114*b
			idx := int(luma / 256 * float64(len(ramp)))
			if idx >= len(ramp) {
				idx = len(ramp) - 1
			}
			fmt.Print(string(ramp[idx]))
		}
		fmt.Println()
	}
	return nil
}

func (w *TerminalWindow) Cleanup() error {
	w.running = false
	return nil
}
