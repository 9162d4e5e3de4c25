package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/lixenwraith/splat/audio"
	"github.com/lixenwraith/splat/preview"
	"github.com/lixenwraith/splat/render/ansiterm"
	"github.com/lixenwraith/splat/render/cellscreen"
	"github.com/lixenwraith/splat/render/pixel"
	"github.com/lixenwraith/splat/scene"
	"github.com/lixenwraith/splat/terminal"
)

const defaultBatchFrames = 120

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

// loop renders on a ticker until quit, input closes, or the frame limit is reached
func (p *player) loop(fps, frames int, events <-chan terminal.Event) error {
	ticker := time.NewTicker(frameInterval(fps))
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok || ev.IsQuit() {
				return nil
			}
			if ev.Type == terminal.EventResize {
				p.backend.Resize(ev.Width, ev.Height)
			}

		case now := <-ticker.C:
			if err := p.renderFrame(now.Sub(start)); err != nil {
				return err
			}
			if frames > 0 && p.frame >= frames {
				return nil
			}
		}
	}
}

// guardPoller restores the terminal if an input goroutine panics
func guardPoller(name string) {
	if r := recover(); r != nil {
		terminal.EmergencyReset(os.Stdout)
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", name, r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	}
}

func runANSI(cfg config, sc *scene.Scene, sound *audio.SoundManager) error {
	term := terminal.New()
	if err := term.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer term.Fini()

	w, h := term.Size()
	r := ansiterm.NewRenderer(term, w, h)
	p, err := newPlayer(sc, r, cfg.threshold)
	if err != nil {
		return err
	}
	p.sound = sound

	events := make(chan terminal.Event, 256)
	go func() {
		defer guardPoller("EVENT POLLER")
		for {
			ev := term.PollEvent()
			if ev.Type == terminal.EventClosed || ev.Type == terminal.EventError {
				close(events)
				return
			}
			events <- ev
		}
	}()

	return p.loop(cfg.fps, cfg.frames, events)
}

func runTcell(cfg config, sc *scene.Scene, sound *audio.SoundManager) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tcell init: %w", err)
	}
	defer screen.Fini()

	r := cellscreen.NewRenderer(screen)
	p, err := newPlayer(sc, r, cfg.threshold)
	if err != nil {
		return err
	}
	p.sound = sound

	events := make(chan terminal.Event, 100)
	go func() {
		defer guardPoller("EVENT POLLER")
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			if te, ok := fromTcell(ev); ok {
				events <- te
			}
		}
	}()

	return p.loop(cfg.fps, cfg.frames, events)
}

// fromTcell maps the tcell events the loop cares about onto terminal events
func fromTcell(ev tcell.Event) (terminal.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape:
			return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEscape}, true
		case tcell.KeyCtrlC:
			return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC}, true
		case tcell.KeyEnter:
			return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter}, true
		case tcell.KeyRune:
			return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: ev.Rune()}, true
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		return terminal.Event{Type: terminal.EventResize, Width: w, Height: h}, true
	}
	return terminal.Event{}, false
}

func runPixel(cfg config, sc *scene.Scene) error {
	format, err := pixel.ParseFormat(cfg.format)
	if err != nil {
		return err
	}
	sink, err := pixel.NewFileSink(cfg.out, sc.Name+"_", format)
	if err != nil {
		return err
	}

	r := pixel.NewRenderer(sc.Width, sc.Height, sink)
	p, err := newPlayer(sc, r, cfg.threshold)
	if err != nil {
		return err
	}

	frames := cfg.frames
	if frames <= 0 {
		frames = defaultBatchFrames
	}
	bar := progressbar.Default(int64(frames), "rendering "+sc.Name)
	return renderBatch(p, frames, cfg.fps, bar)
}

// renderBatch renders frames at fixed fps steps, independent of wall time
func renderBatch(p *player, frames, fps int, bar *progressbar.ProgressBar) error {
	step := frameInterval(fps)
	for i := 0; i < frames; i++ {
		if err := p.renderFrame(time.Duration(i) * step); err != nil {
			return err
		}
		bar.Add(1)
	}
	return bar.Finish()
}

func runWindow(cfg config, sc *scene.Scene, sound *audio.SoundManager) error {
	win := preview.New("splat: "+sc.Name, sc.Width, sc.Height, cfg.zoom)
	r := pixel.NewRenderer(sc.Width, sc.Height, win)
	p, err := newPlayer(sc, r, cfg.threshold)
	if err != nil {
		return err
	}
	p.sound = sound

	fps := cfg.fps
	if fps <= 0 {
		fps = defaultFPS
	}
	start := time.Now()
	return win.Run(fps, func() error {
		if err := p.renderFrame(time.Since(start)); err != nil {
			return err
		}
		if cfg.frames > 0 && p.frame >= cfg.frames {
			return preview.ErrClosed
		}
		return nil
	})
}
