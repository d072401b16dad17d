package util

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shockbridge/shockbridge/internal/core/domain"
)

// RecordingOutput is an in-memory output channel for tests.
type RecordingOutput struct {
	mu        sync.Mutex
	transport domain.Transport
	commands  []domain.CanonicalCommand
	lines     []string
	err       error
}

func NewRecordingOutput(transport domain.Transport) *RecordingOutput {
	return &RecordingOutput{transport: transport}
}

func (o *RecordingOutput) Name() domain.Transport {
	return o.transport
}

func (o *RecordingOutput) Send(_ context.Context, cmd domain.CanonicalCommand) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.commands = append(o.commands, cmd)
	return nil
}

func (o *RecordingOutput) WriteLine(line string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.lines = append(o.lines, line)
	return nil
}

func (o *RecordingOutput) Status() domain.OutputStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.OutputStatus{
		Transport: o.transport,
		Connected: o.err == nil,
		State:     "recording",
	}
}

// Fail makes every following send return err. A nil err heals the output.
func (o *RecordingOutput) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *RecordingOutput) Commands() []domain.CanonicalCommand {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.CanonicalCommand(nil), o.commands...)
}

func (o *RecordingOutput) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func (o *RecordingOutput) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.commands = nil
	o.lines = nil
}

// MemoryConfigWriter records saved keys.
type MemoryConfigWriter struct {
	mu     sync.Mutex
	values map[string]any
}

func NewMemoryConfigWriter() *MemoryConfigWriter {
	return &MemoryConfigWriter{values: map[string]any{}}
}

func (w *MemoryConfigWriter) Save(key string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.values[key] = value
	return nil
}

func (w *MemoryConfigWriter) Get(key string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.values[key]
	return v, ok
}

// BlockingOutput never completes a send before its context ends. Started
// counts the sends that reached it.
type BlockingOutput struct {
	transport domain.Transport
	started   atomic.Int32
}

func NewBlockingOutput(transport domain.Transport) *BlockingOutput {
	return &BlockingOutput{transport: transport}
}

func (o *BlockingOutput) Name() domain.Transport {
	return o.transport
}

func (o *BlockingOutput) Send(ctx context.Context, _ domain.CanonicalCommand) error {
	o.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (o *BlockingOutput) Status() domain.OutputStatus {
	return domain.OutputStatus{
		Transport: o.transport,
		Connected: true,
		State:     "blocking",
	}
}

func (o *BlockingOutput) Started() int {
	return int(o.started.Load())
}
