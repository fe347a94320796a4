// Package realtime fans messages out to connected subscribers. Delivery is
// at-most-once: a subscriber that is not reading loses messages.
package realtime

import (
	"context"
	"sync"
)

type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type Subscription interface {
	Messages() <-chan []byte
	Close() error
}

func ChatChannel(chatID string) string {
	return "chat:" + chatID
}

func AppointmentChannel(appointmentID string) string {
	return "appointment:" + appointmentID
}

const subscriberBuffer = 64

// ======================================================
// In-process broker (single instance, tests)
// ======================================================

type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySub]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[*memorySub]struct{}{}}
}

type memorySub struct {
	broker  *MemoryBroker
	channel string
	ch      chan []byte
	once    sync.Once
}

func (s *memorySub) Messages() <-chan []byte { return s.ch }

func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs[s.channel], s)
		if len(s.broker.subs[s.channel]) == 0 {
			delete(s.broker.subs, s.channel)
		}
		s.broker.mu.Unlock()
		close(s.ch)
	})
	return nil
}

func (b *MemoryBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[channel] {
		msg := append([]byte(nil), payload...)
		select {
		case s.ch <- msg:
		default:
			// subscriber lagging
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, channel string) (Subscription, error) {
	s := &memorySub{broker: b, channel: channel, ch: make(chan []byte, subscriberBuffer)}

	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = map[*memorySub]struct{}{}
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	return s, nil
}
