package natsio

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix is prepended to channel names to form NATS subjects
const SubjectPrefix = "zunou.broadcast.v1."

// Subject returns the NATS subject of a channel.
func Subject(channel string) string {
	return SubjectPrefix + channel
}

// Channel returns the channel name of a broadcast subject.
func Channel(subject string) string {
	return strings.TrimPrefix(subject, SubjectPrefix)
}

// Broker relays broadcasts over NATS so that every API node reaches its own
// websocket clients
type Broker struct {
	nc *nats.Conn
}

// NewBroker creates a NATS broker.
func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{nc: nc}
}

// Publish implements fanout.Broker.
func (b *Broker) Publish(ctx context.Context, channel string, msg fanout.Message) error {
	if b.nc == nil {
		return errors.New("connection to nats is missing")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode broadcast")
	}
	if err := b.nc.Publish(Subject(channel), data); err != nil {
		return errors.Wrapf(err, "failed to publish on %s", channel)
	}
	return nil
}

// Subscribe implements fanout.Broker.
func (b *Broker) Subscribe(channel string, h fanout.Handler) (fanout.Subscription, error) {
	if b.nc == nil {
		return nil, errors.New("connection to nats is missing")
	}

	sub, err := b.nc.Subscribe(Subject(channel), func(m *nats.Msg) {
		msg, err := Decode(m.Data)
		if err != nil {
			log.WithField("subject", m.Subject).Errorf("dropping malformed broadcast: %v", err)
			return
		}
		h(msg)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to subscribe to %s", channel)
	}
	return sub, nil
}

// Decode parses a broadcast payload.
func Decode(data []byte) (fanout.Message, error) {
	msg := fanout.Message{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, errors.Wrap(err, "failed to decode broadcast")
	}
	return msg, nil
}
