package terminal

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Terminal provides raw terminal access for pre-rendered ANSI streams
type Terminal interface {
	io.Writer

	// Init enters raw mode, alternate screen buffer, hides cursor, disables auto-wrap
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// PollEvent blocks until next input or resize event
	PollEvent() Event

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	input       *inputReader
	resizeCh    chan Event
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal on the platform backend
func New() Terminal {
	return newTerminal(newBackend())
}

func newTerminal(b Backend) *termImpl {
	return &termImpl{
		backend:     b,
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest size pending
		select {
		case t.resizeCh <- ev:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ev:
			default:
			}
		}
	})

	// Auto-wrap off keeps bottom-right writes from scrolling
	t.writeRaw(ansi.SetModeAltScreenSaveCursor)
	t.writeRaw(ansi.HideCursor)
	t.writeRaw(ansi.ResetModeAutoWrap)
	t.writeRaw(ansi.EraseEntireScreen + ansi.CursorHomePosition)

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(ansi.ShowCursor)
	t.writeRaw(ansi.ResetModeAltScreenSaveCursor)
	// Re-enable wrap after leaving alt screen so the main buffer has it
	t.writeRaw(ansi.SetModeAutoWrap)
	t.writeRaw(ansi.ResetStyle)

	t.backend.Fini()

	t.finalized = true
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// Write passes a frame stream through to the backend
func (t *termImpl) Write(p []byte) (int, error) {
	if err := t.backend.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// PollEvent blocks until next input event
func (t *termImpl) PollEvent() Event {
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	var inputCh <-chan Event
	if t.input != nil {
		inputCh = t.input.events()
	}
	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-inputCh:
		return ev
	case ev := <-t.resizeCh:
		return ev
	}
}

// PostEvent injects a synthetic event, dropped when the queue is full
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
	}
}

func (t *termImpl) writeRaw(s string) {
	t.backend.Write([]byte(s))
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	io.WriteString(w, ansi.ShowCursor)
	io.WriteString(w, ansi.ResetModeAltScreenSaveCursor)
	io.WriteString(w, ansi.ResetStyle)
	io.WriteString(w, ansi.SetModeAutoWrap)
	io.WriteString(w, ansi.ResetInitialState)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
