// Command gones is the NES emulator executable: it parses flags, builds an
// Application, and either drives the GUI event loop or runs a fixed number
// of headless frames for scripted/automated use.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gones/internal/app"
	"gones/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile  = flag.String("config", "", "Path to configuration file")
		debug       = flag.Bool("debug", false, "Enable debug mode")
		headless    = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		frames      = flag.Int("frames", 120, "Frames to run in headless mode before exiting")
		dumpEvery   = flag.Int("dump-every", 30, "Dump a PPM snapshot every N headless frames (0 disables)")
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		version.Print()
		return
	}

	installSignalHandler()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *headless)
	if err != nil {
		log.Fatalf("create application: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	if *headless {
		application.GetConfig().Video.Backend = "headless"
	}

	if *debug {
		application.GetConfig().UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
	}

	if *romFile != "" {
		if err := application.LoadROM(*romFile); err != nil {
			log.Fatalf("load ROM %s: %v", *romFile, err)
		}
		fmt.Printf("loaded %s\n", *romFile)
		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *headless {
		if *romFile == "" {
			log.Fatal("headless mode requires -rom")
		}
		runHeadless(application, *frames, *dumpEvery)
		return
	}

	if err := runGUI(application); err != nil {
		log.Fatalf("GUI mode: %v", err)
	}
}

// runGUI starts the graphical event loop and reports session statistics
// once it returns.
func runGUI(application *app.Application) error {
	config := application.GetConfig()
	width, height := config.GetWindowResolution()
	fmt.Printf("window %dx%d (scale %dx), audio %s, video filter %s\n",
		width, height, config.Window.Scale,
		enabledString(config.Audio.Enabled), config.Video.Filter)

	if err := application.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("frames rendered: %d, uptime: %v, avg FPS: %.1f\n",
		application.GetFrameCount(), application.GetUptime(), application.GetFPS())
	return nil
}

// runHeadless steps the bus directly for a fixed frame count, independent
// of Application.Run's event loop, so automated tooling gets a
// deterministic number of frames and exits without needing a window
// backend or a Stop() signal.
func runHeadless(application *app.Application, frameCount, dumpEvery int) {
	bus := application.GetBus()
	if bus == nil {
		log.Fatal("headless mode: bus not initialized")
	}

	const cyclesPerFrame = 29780 // ~1 NTSC frame of CPU cycles (341 dots * 262 lines / 3)
	for frame := 0; frame < frameCount; frame++ {
		for cycle := 0; cycle < cyclesPerFrame; cycle++ {
			bus.Step()
		}

		if dumpEvery > 0 && (frame+1)%dumpEvery == 0 {
			dumpFrame(bus.GetFrameBuffer(), frame+1)
		}
	}
	fmt.Printf("headless run complete: %d frames\n", frameCount)
}

// dumpFrame writes the frame buffer as a PPM image and logs a quick
// non-background-pixel census, useful for eyeballing whether anything
// actually rendered without opening an image viewer mid-run.
func dumpFrame(frameBuffer []uint32, frame int) {
	name := fmt.Sprintf("frame_%03d.ppm", frame)
	if err := writePPM(frameBuffer, name); err != nil {
		log.Printf("dump frame %d: %v", frame, err)
		return
	}

	distinct := make(map[uint32]struct{})
	nonBlack := 0
	for _, pixel := range frameBuffer {
		distinct[pixel] = struct{}{}
		if pixel != 0x000000 {
			nonBlack++
		}
	}
	fmt.Printf("%s: %d distinct colors, %.1f%% non-black\n",
		name, len(distinct), float64(nonBlack)/float64(len(frameBuffer))*100)
}

// writePPM encodes a 256x240 RGB frame buffer as an ASCII PPM (P3) file.
func writePPM(frameBuffer []uint32, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
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

// installSignalHandler catches SIGINT/SIGTERM, prints a shutdown line and
// exits with status 0 instead of the default signal termination. It exits
// through os.Exit, so main's deferred Application.Cleanup does not run.
func installSignalHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\ninterrupt received, shutting down")
		os.Exit(0)
	}()
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printUsage() {
	fmt.Println("gones - NES emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    start GUI, no ROM loaded")
	fmt.Println("  gones -rom <file> [options]         start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file> [options]  run a fixed number of frames headlessly")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS (default, player 1):")
	fmt.Println("  Arrow keys / WASD   D-pad")
	fmt.Println("  J / Z               A")
	fmt.Println("  K / X               B")
	fmt.Println("  Enter               Start")
	fmt.Println("  Space               Select")
	fmt.Println("  F1-F10 / Shift+F1-F10  Save / load state")
	fmt.Println("  F11                 Toggle fullscreen")
	fmt.Println()
	fmt.Println("Supports iNES/NES 2.0 headers, mapper 0 (NROM) only.")
}
