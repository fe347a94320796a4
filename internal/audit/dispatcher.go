package audit

import (
	"context"
	"log"
	"sync"
	"time"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID string
	Metadata any
	At       time.Time
}

// Sink receives every dispatched event. A failing sink is logged and
// never affects the others.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Handle(ctx, ev); err != nil {
				log.Printf("audit sink %s error: %v", s.Name(), err)
			}
			cancel()
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Println("audit dispatcher closed, dropping event", ev.Action)
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		log.Println("audit queue full, dropping event", ev.Action)
	}
}

// Close stops accepting events and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
