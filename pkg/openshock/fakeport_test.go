package openshock

import (
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// fakePort answers every write with reply, or stays silent when reply is
// empty.
type fakePort struct {
	reply string
	r     *io.PipeReader
	w     *io.PipeWriter

	mu      sync.Mutex
	written strings.Builder
	opened  atomic.Bool
	closed  atomic.Bool
}

func newFakePort(reply string) *fakePort {
	r, w := io.Pipe()
	return &fakePort{reply: reply, r: r, w: w}
}

func (p *fakePort) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	p.mu.Lock()
	p.written.Write(b)
	p.mu.Unlock()
	if p.reply != "" {
		go func() {
			_, _ = p.w.Write([]byte(p.reply))
		}()
	}
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed.Store(true)
	_ = p.r.Close()
	return p.w.Close()
}

func (p *fakePort) unplug() {
	_ = p.w.CloseWithError(errors.New("device unplugged"))
}

func (p *fakePort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

type fakeLister struct {
	ports []PortInfo
	err   error
}

func (l fakeLister) ListPorts() ([]PortInfo, error) {
	return l.ports, l.err
}

func fakeOpener(ports map[string]*fakePort) PortOpener {
	return func(path string) (io.ReadWriteCloser, error) {
		p, ok := ports[path]
		if !ok {
			return nil, errors.New("no such port")
		}
		p.opened.Store(true)
		return p, nil
	}
}
