package natsio

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "zunou.broadcast.v1.meeting-session.s-1", Subject("meeting-session.s-1"))
	assert.Equal(t, "user-notification.u-1", Channel("zunou.broadcast.v1.user-notification.u-1"))
}

func TestDecode(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := fanout.Message{Event: "e", Channel: "pulse.p", Data: json.RawMessage(`{"id":"s-1"}`), Timestamp: ts}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Event, out.Event)
	assert.JSONEq(t, `{"id":"s-1"}`, string(out.Data))
	assert.True(t, ts.Equal(out.Timestamp))

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}

func TestMissingConnection(t *testing.T) {
	b := NewBroker(nil)
	assert.Error(t, b.Publish(context.Background(), "pulse.p", fanout.Message{}))
	_, err := b.Subscribe("pulse.p", func(fanout.Message) {})
	assert.Error(t, err)
}
