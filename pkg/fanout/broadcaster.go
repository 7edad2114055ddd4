package fanout

import (
	"context"
	"errors"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Broadcaster publishes session events and keeps the event log
type Broadcaster struct {
	broker Broker
	events storage.EventStore
	now    func() time.Time
}

// NewBroadcaster creates a broadcaster. events may be nil to skip the event
// log.
func NewBroadcaster(broker Broker, events storage.EventStore) *Broadcaster {
	return &Broadcaster{
		broker: broker,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Broadcast publishes data as event on every channel. A failing channel does
// not stop delivery to the others; all failures are returned joined.
func (b *Broadcaster) Broadcast(ctx context.Context, event, sourceID string, data interface{}, chs ...channels.Channel) error {
	ts := b.now()
	var errs []error

	for _, ch := range chs {
		name := ch.String()
		msg, err := NewMessage(event, name, data, ts)
		if err != nil {
			return err
		}

		err = b.broker.Publish(ctx, name, msg)
		metrics.RecordBroadcast(event, err)
		if err != nil {
			log.WithFields(log.Fields{
				"event":     event,
				"channel":   name,
				"source_id": sourceID,
			}).Errorf("broadcast failed: %v", err)
			errs = append(errs, err)
			continue
		}

		log.WithFields(log.Fields{
			"event":   event,
			"channel": name,
		}).Debug("broadcast published")

		if b.events == nil {
			continue
		}
		row := &model.Event{
			Channel:    name,
			Name:       event,
			SourceType: model.SourceTypeSession,
			SourceID:   sourceID,
			Timestamp:  ts,
			Details:    string(msg.Data),
		}
		if err := b.events.Create(ctx, row); err != nil {
			log.WithField("channel", name).Errorf("failed to log broadcast event: %v", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
