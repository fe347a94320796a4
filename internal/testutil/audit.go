package testutil

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
)

// Recorder is an audit sink that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Handle(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

func (r *Recorder) Actions() []string {
	var out []string
	for _, ev := range r.Events() {
		out = append(out, ev.Action)
	}
	return out
}

// NewAudit returns a dispatcher writing to a Recorder. Call Close on the
// dispatcher before reading the recorder.
func NewAudit() (*audit.Dispatcher, *Recorder) {
	rec := &Recorder{}
	return audit.NewDispatcher(rec), rec
}
