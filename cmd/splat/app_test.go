package main

import (
	"bytes"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/vt"
	"github.com/gdamore/tcell/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/lixenwraith/splat/render/ansiterm"
	"github.com/lixenwraith/splat/render/cellscreen"
	"github.com/lixenwraith/splat/render/pixel"
	"github.com/lixenwraith/splat/scene"
	"github.com/lixenwraith/splat/terminal"
	"github.com/lixenwraith/splat/vmath"
)

func quietBar(n int) *progressbar.ProgressBar {
	return progressbar.NewOptions(n, progressbar.OptionSetWriter(io.Discard))
}

func TestPixelBatchIntoMemory(t *testing.T) {
	sc := scene.Default()
	sink := &pixel.MemorySink{}
	r := pixel.NewRenderer(sc.Width, sc.Height, sink)
	p, err := newPlayer(sc, r, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := renderBatch(p, 20, 30, quietBar(20)); err != nil {
		t.Fatal(err)
	}
	if len(sink.Frames) != 20 {
		t.Fatalf("Expected 20 frames, got %d", len(sink.Frames))
	}
	if r.Frame() != 20 {
		t.Errorf("Expected renderer frame counter 20, got %d", r.Frame())
	}
	if p.lastBeat != 1 {
		t.Errorf("Expected first beat reached after 20 frames at 30fps, got %d", p.lastBeat)
	}

	lit := 0
	last := sink.Last()
	for i := 3; i < len(last.Pix); i += 4 {
		if last.Pix[i] != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("Expected lit pixels in the last frame")
	}
}

func TestPixelBatchToFiles(t *testing.T) {
	sc := scene.Default()
	dir := t.TempDir()
	sink, err := pixel.NewFileSink(dir, "heart_", pixel.FormatBMP)
	if err != nil {
		t.Fatal(err)
	}
	p, err := newPlayer(sc, pixel.NewRenderer(sc.Width, sc.Height, sink), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := renderBatch(p, 2, 10, quietBar(2)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := os.Stat(sink.Path(i)); err != nil {
			t.Errorf("Expected frame file %d: %v", i, err)
		}
	}
}

func TestANSIFrameShowsStats(t *testing.T) {
	sc := scene.Default()
	var out bytes.Buffer
	r := ansiterm.NewRenderer(&out, sc.Width, sc.Height)
	p, err := newPlayer(sc, r, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.renderFrame(0); err != nil {
		t.Fatal(err)
	}
	stream := out.String()
	if !strings.Contains(stream, ansiterm.StyleUnderline.Sequence()) {
		t.Error("Expected underline sequence for the stats line")
	}
	if !strings.HasSuffix(stream, "\x1b[H") {
		t.Errorf("Expected frame to end at home, got tail %q", stream[max(0, len(stream)-8):])
	}

	emu := vt.NewSafeEmulator(sc.Width, sc.Height)
	defer emu.Close()
	if _, err := emu.Write(out.Bytes()); err != nil {
		t.Fatal(err)
	}
	var row strings.Builder
	for x := 0; x < len(sc.Name); x++ {
		if c := emu.CellAt(x, 0); c != nil {
			row.WriteString(c.Content)
		}
	}
	if row.String() != sc.Name {
		t.Errorf("Expected stats to start with %q, got %q", sc.Name, row.String())
	}
}

func TestANSIStatsDisabled(t *testing.T) {
	sc := scene.Default()
	var out bytes.Buffer
	p, err := newPlayer(sc, ansiterm.NewRenderer(&out, sc.Width, sc.Height), 0)
	if err != nil {
		t.Fatal(err)
	}
	p.stats = false
	if err := p.renderFrame(0); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), sc.Name) {
		t.Error("Expected no stats text")
	}
}

func TestTcellFrame(t *testing.T) {
	sc := scene.Default()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(sc.Width, sc.Height)

	p, err := newPlayer(sc, cellscreen.NewRenderer(screen), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.renderFrame(100 * time.Millisecond); err != nil {
		t.Fatal(err)
	}

	cells, w, _ := screen.GetContents()
	if got := string(cells[0].Runes); got != string(sc.Name[0]) {
		t.Errorf("Expected stats at origin, got %q", got)
	}
	_, _, attrs := cells[0].Style.Decompose()
	if attrs&tcell.AttrUnderline == 0 {
		t.Error("Expected underlined stats")
	}

	glyphs := 0
	for i := w; i < len(cells); i++ {
		if len(cells[i].Runes) > 0 && cells[i].Runes[0] != ' ' {
			glyphs++
		}
	}
	if glyphs == 0 {
		t.Error("Expected mesh glyphs below the stats line")
	}
}

func TestFromTcell(t *testing.T) {
	ev, ok := fromTcell(tcell.NewEventResize(80, 24))
	if !ok || ev.Type != terminal.EventResize || ev.Width != 80 || ev.Height != 24 {
		t.Errorf("Expected resize 80x24, got %+v ok=%v", ev, ok)
	}

	if _, ok := fromTcell(tcell.NewEventInterrupt(nil)); ok {
		t.Error("Expected interrupt to be ignored")
	}
}

func TestLoopQuitsOnKey(t *testing.T) {
	sc := scene.Default()
	var out bytes.Buffer
	p, err := newPlayer(sc, ansiterm.NewRenderer(&out, 40, 20), 0)
	if err != nil {
		t.Fatal(err)
	}

	events := make(chan terminal.Event, 2)
	events <- terminal.Event{Type: terminal.EventResize, Width: 30, Height: 10}
	events <- terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}

	done := make(chan error, 1)
	go func() { done <- p.loop(1, 0, events) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected loop to return on quit")
	}
	if w, h := p.backend.Size(); w != 30 || h != 10 {
		t.Errorf("Expected resize to 30x10, got %dx%d", w, h)
	}
}

func TestLoopFrameLimit(t *testing.T) {
	sc := scene.Default()
	sink := &pixel.MemorySink{}
	p, err := newPlayer(sc, pixel.NewRenderer(20, 10, sink), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.loop(200, 3, make(chan terminal.Event)); err != nil {
		t.Fatal(err)
	}
	if len(sink.Frames) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(sink.Frames))
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.backend != "ansi" || cfg.fps != defaultFPS || cfg.format != "png" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}

	cfg, err = parseFlags([]string{"-backend", "pixel", "-frames", "5", "-threshold", "2.5"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.backend != "pixel" || cfg.frames != 5 || cfg.threshold != 2.5 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	if _, err := parseFlags([]string{"-backend", "gpu"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestLoadSceneDefault(t *testing.T) {
	sc, err := loadScene("")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "beloved" {
		t.Errorf("Expected built-in scene, got %q", sc.Name)
	}
	if _, err := loadScene("missing.yaml"); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestCropOverlay(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))

	tests := []struct {
		name    string
		pos     vmath.Vec2i
		w, h    int
		wantNil bool
		wantPos vmath.Vec2i
		wantDim image.Point
	}{
		{"inside", vmath.V2i(1, 1), 10, 10, false, vmath.V2i(1, 1), image.Pt(4, 3)},
		{"left edge", vmath.V2i(-1, 0), 10, 10, false, vmath.V2i(0, 0), image.Pt(3, 3)},
		{"right and bottom", vmath.V2i(8, 8), 10, 10, false, vmath.V2i(8, 8), image.Pt(2, 2)},
		{"off screen", vmath.V2i(20, 0), 10, 10, true, vmath.Vec2i{}, image.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos := cropOverlay(img, tt.pos, tt.w, tt.h)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected nothing visible, got %v", got.Bounds())
				}
				return
			}
			if pos != tt.wantPos {
				t.Errorf("Expected position %v, got %v", tt.wantPos, pos)
			}
			if got.Bounds().Size() != tt.wantDim {
				t.Errorf("Expected size %v, got %v", tt.wantDim, got.Bounds().Size())
			}
		})
	}
}

func TestOverlayOnSmallTerminal(t *testing.T) {
	sc := scene.Default()
	var out bytes.Buffer
	p, err := newPlayer(sc, ansiterm.NewRenderer(&out, 40, 12), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.renderFrame(0); err != nil {
		t.Errorf("Expected overlay to be cropped to the terminal, got %v", err)
	}
}

func TestRunExitCodes(t *testing.T) {
	t.Chdir(t.TempDir())
	defer log.SetOutput(os.Stderr)

	if code := run([]string{"-backend", "gpu"}); code != 2 {
		t.Errorf("Expected exit 2 for a bad flag, got %d", code)
	}
	if code := run([]string{"-backend", "pixel", "-scene", "missing.yaml"}); code != 1 {
		t.Errorf("Expected exit 1 for a missing scene, got %d", code)
	}
	if code := run([]string{"-backend", "pixel", "-frames", "2", "-out", "frames", "-debug"}); code != 0 {
		t.Fatalf("Expected exit 0 for a pixel batch, got %d", code)
	}
	for _, name := range []string{"beloved_0.png", "beloved_1.png"} {
		if _, err := os.Stat(filepath.Join("frames", name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(logDir, logFileName)); err != nil {
		t.Errorf("Expected debug log file: %v", err)
	}
}
