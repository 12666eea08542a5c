package graphics

import (
	"fmt"
	"os"
	"path/filepath"
)

// HeadlessBackend builds windows with no visible surface: RenderFrame
// still runs, and can optionally dump PPM snapshots, but nothing is
// displayed. Used for the -nogui CLI mode and for the Ebitengine
// fallback path when no display is available.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow satisfies Window without ever opening a real window.
// DumpEvery controls snapshot cadence (0 disables); frames are written as
// OutputDir/frame_NNN.ppm.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int

	OutputDir string
	DumpEvery int
}

// NewHeadlessBackend creates a headless graphics backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize records config; headless has no process-wide setup to do.
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow returns a HeadlessWindow; width/height are recorded only
// for GetSize, since nothing is actually displayed at that resolution.
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &HeadlessWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
	}, nil
}

func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) GetName() string  { return "Headless" }

func (w *HeadlessWindow) SetTitle(title string)          { w.title = title }
func (w *HeadlessWindow) GetSize() (width, height int)   { return w.width, w.height }
func (w *HeadlessWindow) ShouldClose() bool              { return !w.running }
func (w *HeadlessWindow) SwapBuffers()                   {}
func (w *HeadlessWindow) PollEvents() []InputEvent       { return nil }

// RenderFrame counts the frame and, if DumpEvery > 0, writes a PPM
// snapshot every DumpEvery frames.
func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.frameCount++
	if w.DumpEvery > 0 && w.frameCount%w.DumpEvery == 0 {
		name := fmt.Sprintf("frame_%03d.ppm", w.frameCount)
		if w.OutputDir != "" {
			name = filepath.Join(w.OutputDir, name)
		}
		return w.saveFrameAsPPM(frameBuffer, name)
	}
	return nil
}

// saveFrameAsPPM encodes a 256x240 RGB frame buffer as an ASCII PPM file.
func (w *HeadlessWindow) saveFrameAsPPM(frameBuffer [256 * 240]uint32, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n256 240\n255\n")
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := frameBuffer[y*256+x]
			fmt.Fprintf(file, "%d %d %d ", (pixel>>16)&0xFF, (pixel>>8)&0xFF, pixel&0xFF)
		}
		fmt.Fprintln(file)
	}
	return nil
}

func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// GetFrameCount returns the number of frames RenderFrame has received.
func (w *HeadlessWindow) GetFrameCount() int { return w.frameCount }
