package fanout_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout/memory"
	storemem "github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBroker struct {
	fanout.Broker
	fail string
}

func (f *failingBroker) Publish(ctx context.Context, channel string, msg fanout.Message) error {
	if channel == f.fail {
		return errors.New("broker down")
	}
	return f.Broker.Publish(ctx, channel, msg)
}

func TestBroadcastDeliversAndLogs(t *testing.T) {
	ctx := context.Background()
	broker := memory.NewBroker()
	store := storemem.NewStore()
	b := fanout.NewBroadcaster(broker, store.Events())

	var got []fanout.Message
	_, err := broker.Subscribe("pulse.p-1", func(m fanout.Message) { got = append(got, m) })
	require.NoError(t, err)

	err = b.Broadcast(ctx, "meeting-session-started", "s-1", map[string]string{"id": "s-1"},
		channels.Pulse("p-1"), channels.UserNotification("u-1"))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "meeting-session-started", got[0].Event)
	assert.Equal(t, "pulse.p-1", got[0].Channel)
	assert.JSONEq(t, `{"id":"s-1"}`, string(got[0].Data))

	events, err := store.Events().FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	userEvents, err := store.Events().FetchByChannel(ctx, "user-notification.u-1")
	require.NoError(t, err)
	require.Len(t, userEvents, 1)
	for _, ev := range userEvents {
		assert.Equal(t, "s-1", ev.SourceID)
		assert.Equal(t, "SESSION", ev.SourceType)
		var details map[string]string
		require.NoError(t, json.Unmarshal([]byte(ev.Details), &details))
		assert.Equal(t, "s-1", details["id"])
	}
}

func TestBroadcastContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	broker := &failingBroker{Broker: memory.NewBroker(), fail: "pulse.p-1"}
	store := storemem.NewStore()
	b := fanout.NewBroadcaster(broker, store.Events())

	err := b.Broadcast(ctx, "e", "s-1", nil, channels.Pulse("p-1"), channels.Session("s-1"))
	assert.Error(t, err)

	events, err := store.Events().FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	for _, ev := range events {
		assert.Equal(t, "meeting-session.s-1", ev.Channel)
	}
}

func TestBroadcastWithoutEventLog(t *testing.T) {
	b := fanout.NewBroadcaster(memory.NewBroker(), nil)
	assert.NoError(t, b.Broadcast(context.Background(), "e", "s-1", nil, channels.Pulse("p-1")))
}
