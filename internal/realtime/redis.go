package realtime

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
)

// RedisBroker uses redis pub/sub so every API instance sees every message.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps := b.client.Subscribe(ctx, channel)

	// wait for the subscription to be confirmed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	s := &redisSub{ps: ps, ch: make(chan []byte, subscriberBuffer)}
	go s.pump()
	return s, nil
}

type redisSub struct {
	ps   *redis.PubSub
	ch   chan []byte
	once sync.Once
}

func (s *redisSub) pump() {
	defer close(s.ch)
	for msg := range s.ps.Channel() {
		select {
		case s.ch <- []byte(msg.Payload):
		default:
		}
	}
}

func (s *redisSub) Messages() <-chan []byte { return s.ch }

func (s *redisSub) Close() error {
	var err error
	s.once.Do(func() { err = s.ps.Close() })
	return err
}
