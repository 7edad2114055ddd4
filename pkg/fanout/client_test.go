package fanout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliverDropsWhenOutboxFull(t *testing.T) {
	hub := NewHub(nil, nil, nil, WithOutboxSize(2))
	c := newClient(hub, nil, "u-1")

	for i := 0; i < 5; i++ {
		c.deliver(Message{Event: "e", Channel: "pulse.p"})
	}
	assert.Len(t, c.outbox, 2)

	c.stop()
	c.deliver(Message{Event: "e", Channel: "pulse.p"})
	assert.Len(t, c.outbox, 2)
}
