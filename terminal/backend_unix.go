//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/splat/render/ansiterm"
)

// ErrNotTerminal is returned when stdin is not attached to a terminal
var ErrNotTerminal = errors.New("stdin is not a terminal")

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	readBuf []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newBackend() Backend {
	return &unixBackend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	return getTerminalSize(b.outFd)
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// Read polls stdin in 100ms slices so the stop channel is honored
func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	if b.readBuf == nil {
		b.readBuf = make([]byte, 256)
	}
	buf := b.readBuf

	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}

		rn, err := unix.Read(b.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, err
		}
		if rn == 0 {
			return nil, nil
		}

		ret := make([]byte, rn)
		copy(ret, buf[:rn])
		return ret, nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)
		lastW, lastH := b.Size()

		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				// SIGWINCH also fires on font changes, only report real size changes
				w, h := b.Size()
				if w == lastW && h == lastH {
					continue
				}
				lastW, lastH = w, h
				handler(w, h)
			}
		}
	}()
}

// getTerminalSize returns the size of fd, falling back to $COLUMNS/$LINES and then the console default
func getTerminalSize(fd int) (int, int) {
	if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return envSize(os.Getenv("COLUMNS"), os.Getenv("LINES"))
}

// envSize parses shell size hints; unusable values take the console default
func envSize(cols, lines string) (int, int) {
	w, err := strconv.Atoi(cols)
	if err != nil || w <= 0 {
		w = ansiterm.DefaultWidth
	}
	h, err := strconv.Atoi(lines)
	if err != nil || h <= 0 {
		h = ansiterm.DefaultHeight
	}
	return w, h
}
