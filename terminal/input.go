package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError
}

// IsQuit reports q, Esc and Ctrl-C
func (e Event) IsQuit() bool {
	if e.Type != EventKey {
		return false
	}
	return e.Key == KeyEscape || e.Key == KeyCtrlC || (e.Key == KeyRune && (e.Rune == 'q' || e.Rune == 'Q'))
}

// inputReader turns raw backend reads into key events
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly, holds partial sequences across reads
	buf []byte
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout: a lone ESC left in the buffer is a standalone key
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		consumed := r.parseInput(r.buf)
		if consumed > 0 {
			n := copy(r.buf, r.buf[consumed:])
			r.buf = r.buf[:n]
		}
	}
}

// parseInput emits events for complete input and returns bytes consumed
func (r *inputReader) parseInput(data []byte) int {
	i := 0
	for i < len(data) {
		n, ev := decodeKey(data[i:])
		if n == 0 {
			return i
		}
		if ev.Key != KeyNone {
			r.sendEvent(ev)
		}
		i += n
	}
	return i
}

// decodeKey decodes one key from the front of data
// Returns 0 consumed when more bytes are needed
func decodeKey(data []byte) (int, Event) {
	b := data[0]
	switch {
	case b >= 0x20 && b < 0x7f:
		return 1, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}
	case b == 0x1b:
		return decodeEscape(data)
	case b == '\r' || b == '\n':
		return 1, Event{Type: EventKey, Key: KeyEnter}
	case b == '\t':
		return 1, Event{Type: EventKey, Key: KeyTab}
	case b == 0x7f || b == 0x08:
		return 1, Event{Type: EventKey, Key: KeyBackspace}
	case b >= 0x01 && b <= 0x1a:
		return 1, Event{Type: EventKey, Key: KeyCtrlA + Key(b-1)}
	case b >= 0x80:
		if !utf8.FullRune(data) {
			return 0, Event{}
		}
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError {
			return size, Event{}
		}
		return size, Event{Type: EventKey, Key: KeyRune, Rune: r}
	}
	return 1, Event{}
}

// decodeEscape handles ESC-prefixed input; unknown sequences are swallowed
func decodeEscape(data []byte) (int, Event) {
	if len(data) < 2 {
		return 0, Event{}
	}
	switch data[1] {
	case '[':
		// CSI: parameters until a final byte in 0x40..0x7e
		for i := 2; i < len(data); i++ {
			c := data[i]
			if c < 0x40 || c > 0x7e {
				continue
			}
			switch c {
			case 'A':
				return i + 1, Event{Type: EventKey, Key: KeyUp}
			case 'B':
				return i + 1, Event{Type: EventKey, Key: KeyDown}
			case 'C':
				return i + 1, Event{Type: EventKey, Key: KeyRight}
			case 'D':
				return i + 1, Event{Type: EventKey, Key: KeyLeft}
			}
			return i + 1, Event{}
		}
		return 0, Event{}
	case 'O':
		if len(data) < 3 {
			return 0, Event{}
		}
		return 3, Event{}
	case 0x1b:
		return 1, Event{Type: EventKey, Key: KeyEscape}
	}
	if data[1] >= 0x20 && data[1] < 0x7f {
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}
	}
	return 1, Event{Type: EventKey, Key: KeyEscape}
}

// sendEvent drops events when the consumer lags
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
	}
}
