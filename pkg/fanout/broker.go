// Package fanout delivers session events to subscribers of named channels.
// Delivery is best effort: a message reaches every client connected and
// subscribed at publish time at most once.
package fanout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Message is a single broadcast on a channel
type Message struct {
	Event     string          `json:"event"`
	Channel   string          `json:"channel"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage encodes data as the payload of a message.
func NewMessage(event, channel string, data interface{}, ts time.Time) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, errors.Wrapf(err, "failed to encode %s payload", event)
	}
	return Message{Event: event, Channel: channel, Data: raw, Timestamp: ts}, nil
}

// Handler receives the messages of a subscription
type Handler func(Message)

// Subscription is an active channel subscription
type Subscription interface {
	Unsubscribe() error
}

// Broker is the transport between publishers and subscribers
type Broker interface {
	Publish(ctx context.Context, channel string, msg Message) error
	Subscribe(channel string, h Handler) (Subscription, error)
}
