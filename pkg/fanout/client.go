package fanout

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	log "github.com/sirupsen/logrus"
)

// Frame types sent to subscribers
const (
	FrameSubscribed   = "subscribed"
	FrameUnsubscribed = "unsubscribed"
	FrameError        = "error"
	FrameEvent        = "event"
)

type clientFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type serverFrame struct {
	Type      string          `json:"type"`
	Channel   string          `json:"channel,omitempty"`
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type client struct {
	hub    *Hub
	conn   net.Conn
	userID string

	outbox   chan []byte
	stopCh   chan struct{}
	stopOnce sync.Once

	mu   sync.Mutex
	subs map[string]Subscription

	wg sync.WaitGroup
}

func newClient(hub *Hub, conn net.Conn, userID string) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		outbox: make(chan []byte, hub.outboxSize),
		stopCh: make(chan struct{}),
		subs:   make(map[string]Subscription),
	}
}

// run blocks until the connection is gone.
func (c *client) run(ctx context.Context) {
	c.wg.Add(1)
	go c.outboxWorker()

	c.inboxWorker(ctx)

	c.stop()
	c.wg.Wait()
	c.unsubscribeAll()
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *client) inboxWorker(ctx context.Context) {
	state := ws.StateServerSide
	ch := wsutil.ControlFrameHandler(c.conn, state)

	r := &wsutil.Reader{
		Source:         c.conn,
		State:          state,
		CheckUTF8:      true,
		OnIntermediate: ch,
	}

	for {
		h, err := r.NextFrame()
		if err != nil {
			log.WithField("user_id", c.userID).Debugf("websocket read error: %v", err)
			return
		}

		if h.OpCode.IsControl() {
			if h.OpCode == ws.OpClose {
				log.WithField("user_id", c.userID).Debug("websocket connection closed gracefully")
				return
			}
			if err = ch(h, r); err != nil {
				log.WithField("user_id", c.userID).Errorf("websocket control frame error: %v", err)
				return
			}
			continue
		}

		data, err := io.ReadAll(r)
		if err != nil {
			log.WithField("user_id", c.userID).Errorf("websocket read error: %v", err)
			return
		}

		select {
		case <-c.stopCh:
			return
		default:
		}
		c.handleFrame(ctx, data)
	}
}

func (c *client) outboxWorker() {
	defer c.wg.Done()
	defer c.stop()

	state := ws.StateServerSide
	w := wsutil.NewWriter(c.conn, state, ws.OpText)

	for {
		select {
		case data := <-c.outbox:
			w.Reset(c.conn, state, ws.OpText)
			_, err := w.Write(data)
			if err == nil {
				err = w.Flush()
			}
			if err != nil {
				log.WithField("user_id", c.userID).Errorf("websocket write error: %v", err)
				c.conn.Close()
				return
			}
		case <-c.stopCh:
			return
		}
	}
}

func (c *client) handleFrame(ctx context.Context, data []byte) {
	frame := clientFrame{}
	if err := json.Unmarshal(data, &frame); err != nil {
		c.reply(serverFrame{Type: FrameError, Error: "invalid frame"})
		return
	}

	switch frame.Action {
	case "subscribe":
		c.subscribe(ctx, frame.Channel)
	case "unsubscribe":
		c.unsubscribe(frame.Channel)
	default:
		c.reply(serverFrame{Type: FrameError, Channel: frame.Channel, Error: "unknown action"})
	}
}

func (c *client) subscribe(ctx context.Context, name string) {
	ch, err := channels.Parse(name)
	if err != nil {
		c.reply(serverFrame{Type: FrameError, Channel: name, Error: "invalid channel"})
		return
	}

	c.mu.Lock()
	_, exists := c.subs[name]
	c.mu.Unlock()
	if exists {
		c.reply(serverFrame{Type: FrameSubscribed, Channel: name})
		return
	}

	ok, err := c.hub.authorizer.Authorize(ctx, c.userID, ch)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": c.userID,
			"channel": name,
		}).Errorf("channel authorization failed: %v", err)
		c.reply(serverFrame{Type: FrameError, Channel: name, Error: "authorization failed"})
		return
	}
	if !ok {
		c.reply(serverFrame{Type: FrameError, Channel: name, Error: "forbidden"})
		return
	}

	sub, err := c.hub.broker.Subscribe(name, c.deliver)
	if err != nil {
		log.WithField("channel", name).Errorf("subscribe failed: %v", err)
		c.reply(serverFrame{Type: FrameError, Channel: name, Error: "subscribe failed"})
		return
	}

	c.mu.Lock()
	c.subs[name] = sub
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"user_id": c.userID,
		"channel": name,
	}).Debug("client subscribed")
	c.reply(serverFrame{Type: FrameSubscribed, Channel: name})
}

func (c *client) unsubscribe(name string) {
	c.mu.Lock()
	sub, ok := c.subs[name]
	delete(c.subs, name)
	c.mu.Unlock()

	if ok {
		if err := sub.Unsubscribe(); err != nil {
			log.WithField("channel", name).Warnf("unsubscribe failed: %v", err)
		}
	}
	c.reply(serverFrame{Type: FrameUnsubscribed, Channel: name})
}

func (c *client) unsubscribeAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]Subscription)
	c.mu.Unlock()

	for name, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			log.WithField("channel", name).Warnf("unsubscribe failed: %v", err)
		}
	}
}

// deliver queues an event without blocking the broker. A full outbox drops
// the event.
func (c *client) deliver(msg Message) {
	ts := msg.Timestamp
	data, err := json.Marshal(serverFrame{
		Type:      FrameEvent,
		Channel:   msg.Channel,
		Event:     msg.Event,
		Data:      msg.Data,
		Timestamp: &ts,
	})
	if err != nil {
		log.Errorf("failed to encode event frame: %v", err)
		return
	}

	select {
	case <-c.stopCh:
	case c.outbox <- data:
	default:
		metrics.RecordDropped()
		log.WithFields(log.Fields{
			"user_id": c.userID,
			"channel": msg.Channel,
			"event":   msg.Event,
		}).Warn("client outbox full, dropping event")
	}
}

// reply queues a control frame. It waits for room unless the client is
// stopping.
func (c *client) reply(f serverFrame) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	select {
	case c.outbox <- data:
	case <-c.stopCh:
	}
}
