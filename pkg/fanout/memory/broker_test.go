package memory

import (
	"context"
	"testing"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewBroker()
	var got []fanout.Message

	sub, err := b.Subscribe("pulse.p-1", func(m fanout.Message) { got = append(got, m) })
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers("pulse.p-1"))

	require.NoError(t, b.Publish(context.Background(), "pulse.p-1", fanout.Message{Event: "a"}))
	require.NoError(t, b.Publish(context.Background(), "pulse.p-2", fanout.Message{Event: "b"}))

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Event)

	require.NoError(t, sub.Unsubscribe())
	assert.Equal(t, 0, b.Subscribers("pulse.p-1"))

	require.NoError(t, b.Publish(context.Background(), "pulse.p-1", fanout.Message{Event: "c"}))
	assert.Len(t, got, 1)
}

func TestPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewBroker().Publish(ctx, "pulse.p-1", fanout.Message{}))
}
