package memory

import (
	"context"
	"sync"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
)

// Broker is an in-process broker. Handlers run synchronously on the
// publishing goroutine.
type Broker struct {
	subs   map[string]map[int64]fanout.Handler
	nextID int64
	sync.RWMutex
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[int64]fanout.Handler),
	}
}

type subscription struct {
	b       *Broker
	channel string
	id      int64
}

func (s *subscription) Unsubscribe() error {
	s.b.Lock()
	defer s.b.Unlock()

	if handlers, ok := s.b.subs[s.channel]; ok {
		delete(handlers, s.id)
		if len(handlers) == 0 {
			delete(s.b.subs, s.channel)
		}
	}
	return nil
}

// Publish implements fanout.Broker.
func (b *Broker) Publish(ctx context.Context, channel string, msg fanout.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.RLock()
	handlers := make([]fanout.Handler, 0, len(b.subs[channel]))
	for _, h := range b.subs[channel] {
		handlers = append(handlers, h)
	}
	b.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// Subscribe implements fanout.Broker.
func (b *Broker) Subscribe(channel string, h fanout.Handler) (fanout.Subscription, error) {
	b.Lock()
	defer b.Unlock()

	b.nextID++
	if _, ok := b.subs[channel]; !ok {
		b.subs[channel] = make(map[int64]fanout.Handler)
	}
	b.subs[channel][b.nextID] = h

	return &subscription{b: b, channel: channel, id: b.nextID}, nil
}

// Subscribers returns the number of handlers on a channel.
func (b *Broker) Subscribers(channel string) int {
	b.RLock()
	defer b.RUnlock()
	return len(b.subs[channel])
}
