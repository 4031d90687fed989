// Package progress provides ready-made ports.ProgressReporter implementations.
package progress

import (
	"context"
	"sync"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/ports"
)

// Func adapts a plain function to a reporter.
type Func func(ctx context.Context, event domain.ProgressEvent)

func (f Func) Report(ctx context.Context, event domain.ProgressEvent) {
	if f != nil {
		f(ctx, event)
	}
}

// Channel forwards events to a channel. A send blocks until the consumer reads or ctx ends,
// after which events are dropped.
type Channel chan<- domain.ProgressEvent

func (c Channel) Report(ctx context.Context, event domain.ProgressEvent) {
	if c == nil {
		return
	}
	select {
	case c <- event:
	case <-ctx.Done():
	}
}

// Discard drops every event.
var Discard ports.ProgressReporter = Func(nil)

type synchronized struct {
	mu    sync.Mutex
	inner ports.ProgressReporter
}

// Synchronized serializes calls to r so reporters that are not goroutine safe can be shared
// by concurrent workers. A nil r yields Discard.
func Synchronized(r ports.ProgressReporter) ports.ProgressReporter {
	if r == nil {
		return Discard
	}
	return &synchronized{inner: r}
}

func (s *synchronized) Report(ctx context.Context, event domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Report(ctx, event)
}

// Recorder keeps every event in memory. Useful for the CLI and tests.
type Recorder struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

func (r *Recorder) Report(_ context.Context, event domain.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProgressEvent, len(r.events))
	copy(out, r.events)
	return out
}
