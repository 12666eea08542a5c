// Package app provides emulator integration for the main application.
package app

import (
	"fmt"
	"time"

	"gones/internal/bus"
)

// Emulator drives the Bus through exactly one NTSC frame (29,781 CPU
// cycles) per Update call and caches the resulting frame buffer/audio
// samples for the graphics backend to pick up.
type Emulator struct {
	bus    *bus.Bus
	config *Config

	cyclesPerFrame  uint64
	targetFrameTime time.Duration

	frameBuffer  []uint32
	audioSamples []float32

	actualFrameTime  time.Duration
	emulationTime    time.Duration
	cycleCount       uint64
	frameCount       uint64
	averageFrameTime time.Duration

	isRunning     bool
	lastResetTime time.Time
}

// NewEmulator creates an Emulator bound to bus, using spec-fixed NTSC
// timing (60 Hz, 29,781 CPU cycles/frame) rather than anything adaptive:
// Update always advances exactly one frame, so callers driving it at 60Hz
// (Ebitengine's Update hook, or a headless frame-counting loop) get
// consistent real-time speed without a separate pacing layer.
func NewEmulator(bus *bus.Bus, config *Config) *Emulator {
	e := &Emulator{
		bus:             bus,
		config:          config,
		cyclesPerFrame:  29781,
		targetFrameTime: 16666667 * time.Nanosecond,
		frameBuffer:     make([]uint32, 256*240),
		audioSamples:    make([]float32, 0, 1024),
		lastResetTime:   time.Now(),
	}
	e.Reset()
	return e
}

// Reset returns all per-session counters and the cached frame buffer to
// their zero state, without touching the Bus itself (the caller is
// expected to Reset the Bus separately, e.g. on ROM load).
func (e *Emulator) Reset() {
	e.frameCount = 0
	e.cycleCount = 0
	e.actualFrameTime = 0
	e.emulationTime = 0
	e.averageFrameTime = 0
	e.lastResetTime = time.Now()

	for i := range e.frameBuffer {
		e.frameBuffer[i] = 0
	}
	e.audioSamples = e.audioSamples[:0]
}

// Start marks the emulator as runnable; Update is a no-op until Start has
// been called (or after Stop).
func (e *Emulator) Start() { e.isRunning = true }

// Stop suspends frame stepping; Update becomes a no-op until Start.
func (e *Emulator) Stop() { e.isRunning = false }

// Update steps the Bus through exactly one frame's worth of CPU cycles,
// refreshes the cached frame buffer and audio samples, and updates the
// rolling average frame time used by GetAverageFrameTime. A no-op while
// stopped.
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}

	start := time.Now()
	if err := e.stepFrame(); err != nil {
		return fmt.Errorf("frame execution: %w", err)
	}
	e.actualFrameTime = time.Since(start)

	if e.averageFrameTime == 0 {
		e.averageFrameTime = e.actualFrameTime
	} else {
		// Exponential moving average, 5% weight on the latest sample.
		e.averageFrameTime = time.Duration(float64(e.averageFrameTime)*0.95 + float64(e.actualFrameTime)*0.05)
	}
	return nil
}

// stepFrame runs the Bus forward by cyclesPerFrame CPU cycles and copies
// out whatever the PPU/APU produced during that span.
func (e *Emulator) stepFrame() error {
	start := time.Now()

	target := e.bus.GetCycleCount() + e.cyclesPerFrame
	for e.bus.GetCycleCount() < target {
		e.bus.Step()
	}
	e.frameCount++

	if buf := e.bus.GetFrameBuffer(); len(buf) == len(e.frameBuffer) {
		copy(e.frameBuffer, buf)
	}
	if samples := e.bus.GetAudioSamples(); len(samples) > 0 {
		if cap(e.audioSamples) < len(samples) {
			e.audioSamples = make([]float32, len(samples))
		} else {
			e.audioSamples = e.audioSamples[:len(samples)]
		}
		copy(e.audioSamples, samples)
	}

	e.emulationTime = time.Since(start)
	e.cycleCount = e.bus.GetCycleCount()
	return nil
}

// StepFrame runs one frame of emulation regardless of Start/Stop state,
// for callers (single-stepping debug tooling) that want frame-by-frame
// control without the Update/isRunning gate.
func (e *Emulator) StepFrame() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	return e.stepFrame()
}

// StepInstruction executes a single CPU instruction's worth of cycles.
func (e *Emulator) StepInstruction() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	e.bus.Step()
	e.cycleCount = e.bus.GetCycleCount()
	return nil
}

// GetFrameBuffer returns the 256x240 RGB frame buffer from the most
// recently completed frame.
func (e *Emulator) GetFrameBuffer() []uint32 { return e.frameBuffer }

// GetAudioSamples returns the audio samples synthesized during the most
// recently completed frame. Always empty: audio synthesis is a non-goal.
func (e *Emulator) GetAudioSamples() []float32 { return e.audioSamples }

// GetFrameCount returns the number of frames run since the last Reset.
func (e *Emulator) GetFrameCount() uint64 { return e.frameCount }

// GetCycleCount returns the total CPU cycle count since the last Reset.
func (e *Emulator) GetCycleCount() uint64 { return e.cycleCount }

// GetEmulationTime returns the wall-clock time the last frame's Bus
// stepping took, excluding rendering.
func (e *Emulator) GetEmulationTime() time.Duration { return e.emulationTime }

// GetActualFrameTime returns the wall-clock time the last Update call
// took, including Bus stepping.
func (e *Emulator) GetActualFrameTime() time.Duration { return e.actualFrameTime }

// GetAverageFrameTime returns the exponentially-smoothed average frame
// time across recent Update calls.
func (e *Emulator) GetAverageFrameTime() time.Duration { return e.averageFrameTime }

// GetTargetFrameTime returns the fixed 60Hz NTSC frame period.
func (e *Emulator) GetTargetFrameTime() time.Duration { return e.targetFrameTime }

// GetEmulationSpeed returns emulation speed as a percentage of real-time:
// 100 means the last frame took exactly one NTSC frame period.
func (e *Emulator) GetEmulationSpeed() float64 {
	if e.actualFrameTime == 0 {
		return 0
	}
	return float64(e.targetFrameTime) / float64(e.actualFrameTime) * 100
}

// GetCPUUsage returns the share of the last frame's wall-clock time spent
// stepping the Bus, as a percentage.
func (e *Emulator) GetCPUUsage() float64 {
	if e.actualFrameTime == 0 {
		return 0
	}
	return float64(e.emulationTime) / float64(e.actualFrameTime) * 100
}

// IsRunning reports whether Start has been called without a matching Stop.
func (e *Emulator) IsRunning() bool { return e.isRunning }

// GetUptime returns the time elapsed since the last Reset.
func (e *Emulator) GetUptime() time.Duration { return time.Since(e.lastResetTime) }

// SetTargetFrameRate overrides the default 60Hz NTSC frame period; it does
// not change cyclesPerFrame, so pairing it with a non-NTSC rate will drift
// from real-time.
func (e *Emulator) SetTargetFrameRate(fps int) {
	if fps > 0 {
		e.targetFrameTime = time.Duration(1000000/fps) * time.Microsecond
	}
}

// SetCyclesPerFrame overrides the default 29,781 NTSC CPU-cycles-per-frame
// figure.
func (e *Emulator) SetCyclesPerFrame(cycles uint64) { e.cyclesPerFrame = cycles }

// GetCPUState returns a snapshot of CPU register state for debugging.
func (e *Emulator) GetCPUState() bus.CPUState {
	if e.bus == nil {
		return bus.CPUState{}
	}
	return e.bus.GetCPUState()
}

// GetPPUState returns a snapshot of PPU clock/rendering state for
// debugging.
func (e *Emulator) GetPPUState() bus.PPUState {
	if e.bus == nil {
		return bus.PPUState{}
	}
	return e.bus.GetPPUState()
}

// EmulatorStats is a point-in-time snapshot of frame pacing and CPU-time
// usage, surfaced to callers that want to display or log it.
type EmulatorStats struct {
	FrameCount       uint64
	CycleCount       uint64
	EmulationTime    time.Duration
	ActualFrameTime  time.Duration
	AverageFrameTime time.Duration
	TargetFrameTime  time.Duration
	EmulationSpeed   float64
	CPUUsage         float64
	Uptime           time.Duration
	IsRunning        bool
}

// GetPerformanceStats snapshots current frame pacing and CPU-time usage.
func (e *Emulator) GetPerformanceStats() EmulatorStats {
	return EmulatorStats{
		FrameCount:       e.frameCount,
		CycleCount:       e.cycleCount,
		EmulationTime:    e.emulationTime,
		ActualFrameTime:  e.actualFrameTime,
		AverageFrameTime: e.averageFrameTime,
		TargetFrameTime:  e.targetFrameTime,
		EmulationSpeed:   e.GetEmulationSpeed(),
		CPUUsage:         e.GetCPUUsage(),
		Uptime:           e.GetUptime(),
		IsRunning:        e.isRunning,
	}
}

// Cleanup stops the emulator and releases its buffers.
func (e *Emulator) Cleanup() error {
	e.Stop()
	e.frameBuffer = nil
	e.audioSamples = nil
	return nil
}
