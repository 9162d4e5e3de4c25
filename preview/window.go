// Package preview shows pixel frames live in a desktop window
package preview

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrClosed is returned by a step function to end the window loop
var ErrClosed = errors.New("preview closed")

// Window is a pixel.Sink that displays the most recent frame
type Window struct {
	title string
	zoom  int

	mu            sync.Mutex
	pix           []byte
	width, height int
	frames        int

	img  *ebiten.Image
	step func() error
}

// New creates a window sized width x height cells, each drawn as zoom x zoom pixels
func New(title string, width, height, zoom int) *Window {
	if zoom < 1 {
		zoom = 1
	}
	return &Window{title: title, zoom: zoom, width: width, height: height}
}

// WriteFrame implements pixel.Sink; the frame is copied and shown on the next draw
func (w *Window) WriteFrame(frame, width, height int, pix []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cap(w.pix) < len(pix) {
		w.pix = make([]byte, len(pix))
	}
	w.pix = w.pix[:len(pix)]
	copy(w.pix, pix)
	w.width, w.height = width, height
	w.frames = frame + 1
	return nil
}

// Frames returns how many frames have been received
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Run opens the window and calls step once per tick until it fails or the window closes
// Blocks; ebiten requires this on the main goroutine
func (w *Window) Run(tps int, step func() error) error {
	w.step = step
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width*w.zoom, w.height*w.zoom)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	err := ebiten.RunGame(w)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if w.step != nil {
		return w.step()
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pix) == 0 || len(w.pix) != w.width*w.height*4 {
		return
	}
	if w.img == nil || w.img.Bounds().Dx() != w.width || w.img.Bounds().Dy() != w.height {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(w.width, w.height)
	}
	w.img.WritePixels(w.pix)
	screen.DrawImage(w.img, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}
