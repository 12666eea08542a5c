//go:build headless
// +build headless

package graphics

import "fmt"

// This file replaces ebitengine_backend.go under the "headless" build tag,
// for environments (CI, containers with no display server) where pulling
// in ebiten's GL/input bindings isn't even desirable at compile time.
// Every method fails loudly rather than silently behaving like
// HeadlessBackend, so a misconfigured build can't be mistaken for one
// that's actually running the GUI.

var errNoDisplay = fmt.Errorf("ebitengine backend not available in a headless build")

type EbitengineBackend struct{}
type EbitengineWindow struct{}

// NewEbitengineBackend creates the always-failing stub used in headless builds.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

func (b *EbitengineBackend) Initialize(config Config) error                         { return errNoDisplay }
func (b *EbitengineBackend) CreateWindow(title string, w, h int) (Window, error)     { return nil, errNoDisplay }
func (b *EbitengineBackend) Cleanup() error                                         { return nil }
func (b *EbitengineBackend) IsHeadless() bool                                       { return true }
func (b *EbitengineBackend) GetName() string                                        { return "Ebitengine-Stub" }

func (w *EbitengineWindow) SetTitle(title string)                              {}
func (w *EbitengineWindow) GetSize() (width, height int)                       { return 0, 0 }
func (w *EbitengineWindow) ShouldClose() bool                                  { return true }
func (w *EbitengineWindow) SwapBuffers()                                       {}
func (w *EbitengineWindow) PollEvents() []InputEvent                           { return nil }
func (w *EbitengineWindow) RenderFrame(frameBuffer [256 * 240]uint32) error    { return errNoDisplay }
func (w *EbitengineWindow) Cleanup() error                                     { return nil }
func (w *EbitengineWindow) Run() error                                         { return errNoDisplay }
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error)      {}