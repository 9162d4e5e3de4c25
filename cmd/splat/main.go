// Command splat animates a point-cloud mesh in a terminal, a tcell screen, image files or a window
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/splat/audio"
	"github.com/lixenwraith/splat/scene"
	"github.com/lixenwraith/splat/terminal"
)

const defaultFPS = 30

type config struct {
	backend   string
	scenePath string
	frames    int
	fps       int
	out       string
	format    string
	threshold float64
	audio     bool
	volume    float64
	zoom      int
	debug     bool
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("splat", flag.ContinueOnError)
	fs.StringVar(&cfg.backend, "backend", "ansi", "Output backend: ansi, tcell, pixel, window")
	fs.StringVar(&cfg.scenePath, "scene", "", "Scene YAML file (default: built-in heart)")
	fs.IntVar(&cfg.frames, "frames", 0, "Frames to render, 0 runs until quit (pixel default 120)")
	fs.IntVar(&cfg.fps, "fps", defaultFPS, "Frames per second")
	fs.StringVar(&cfg.out, "out", "frames", "Output directory for the pixel backend")
	fs.StringVar(&cfg.format, "format", "png", "Image format for the pixel backend: png, bmp, tiff")
	fs.Float64Var(&cfg.threshold, "threshold", 0, "Splat radius in cells, 0 uses the scene value")
	fs.BoolVar(&cfg.audio, "audio", false, "Play a heartbeat on each beat")
	fs.Float64Var(&cfg.volume, "volume", 0.6, "Heartbeat volume 0..1")
	fs.IntVar(&cfg.zoom, "zoom", 8, "Window pixels per cell")
	fs.BoolVar(&cfg.debug, "debug", false, "Write logs to logs/splat.log")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	switch cfg.backend {
	case "ansi", "tcell", "pixel", "window":
	default:
		return cfg, fmt.Errorf("unknown backend %q", cfg.backend)
	}
	return cfg, nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.Load(path)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command and returns the exit code; deferred cleanup always runs before exit
func run(args []string) (code int) {
	// Panic recovery: the terminal must be usable again even after a crash
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSPLAT CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			code = 1
		}
	}()

	cfg, err := parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	if f := setupLogging(cfg.debug); f != nil {
		defer f.Close()
	}

	sc, err := loadScene(cfg.scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scene: %v\n", err)
		return 1
	}

	var sound *audio.SoundManager
	if cfg.audio && cfg.backend != "pixel" {
		sm := audio.NewSoundManager(cfg.volume)
		if err := sm.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v (continuing without audio)", err)
		} else {
			defer sm.Cleanup()
			sound = sm
		}
	}

	switch cfg.backend {
	case "tcell":
		err = runTcell(cfg, sc, sound)
	case "pixel":
		err = runPixel(cfg, sc)
	case "window":
		err = runWindow(cfg, sc, sound)
	default:
		err = runANSI(cfg, sc, sound)
	}
	if err != nil {
		log.Printf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "splat: %v\n", err)
		return 1
	}
	return 0
}
