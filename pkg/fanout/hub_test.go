package fanout_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout/memory"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type allowList map[string]bool

func (a allowList) Authorize(ctx context.Context, userID string, ch channels.Channel) (bool, error) {
	return a[userID+"|"+ch.String()], nil
}

type wsConn struct {
	conn net.Conn
	rw   io.ReadWriter
}

func dial(t *testing.T, srv *httptest.Server, userID string) *wsConn {
	token, err := fanout.IssueToken(secret, userID, time.Minute)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, br, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)

	var r io.Reader = conn
	if br != nil {
		r = br
	}
	return &wsConn{conn: conn, rw: struct {
		io.Reader
		io.Writer
	}{r, conn}}
}

func (c *wsConn) send(t *testing.T, action, channel string) {
	data, _ := json.Marshal(map[string]string{"action": action, "channel": channel})
	require.NoError(t, wsutil.WriteClientText(c.conn, data))
}

func (c *wsConn) next(t *testing.T) map[string]interface{} {
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	data, err := wsutil.ReadServerText(c.rw)
	require.NoError(t, err)
	frame := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHubSubscribeAndReceive(t *testing.T) {
	broker := memory.NewBroker()
	hub := fanout.NewHub(broker, allowList{"u-1|pulse.p-1": true}, secret)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv, "u-1")
	defer c.conn.Close()

	c.send(t, "subscribe", "pulse.p-1")
	frame := c.next(t)
	assert.Equal(t, "subscribed", frame["type"])
	assert.Equal(t, "pulse.p-1", frame["channel"])

	msg, err := fanout.NewMessage("meeting-session-started", "pulse.p-1", map[string]string{"id": "s-1"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), "pulse.p-1", msg))

	frame = c.next(t)
	assert.Equal(t, "event", frame["type"])
	assert.Equal(t, "meeting-session-started", frame["event"])
	assert.Equal(t, map[string]interface{}{"id": "s-1"}, frame["data"])

	c.send(t, "unsubscribe", "pulse.p-1")
	frame = c.next(t)
	assert.Equal(t, "unsubscribed", frame["type"])
	assert.Equal(t, 0, broker.Subscribers("pulse.p-1"))
}

func TestHubRejectsForbiddenAndInvalidChannels(t *testing.T) {
	broker := memory.NewBroker()
	hub := fanout.NewHub(broker, allowList{}, secret)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv, "u-1")
	defer c.conn.Close()

	c.send(t, "subscribe", "user-notification.u-2")
	frame := c.next(t)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "forbidden", frame["error"])

	c.send(t, "subscribe", "task.1")
	frame = c.next(t)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "invalid channel", frame["error"])

	c.send(t, "dance", "pulse.p-1")
	frame = c.next(t)
	assert.Equal(t, "unknown action", frame["error"])

	assert.Equal(t, 0, broker.Subscribers("user-notification.u-2"))
}

func TestHubRequiresToken(t *testing.T) {
	hub := fanout.NewHub(memory.NewBroker(), allowList{}, secret)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	_, _, _, err := ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/")
	assert.Error(t, err)

	forged, err := fanout.IssueToken([]byte("other"), "u-1", time.Minute)
	require.NoError(t, err)
	_, _, _, err = ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/?token="+forged)
	assert.Error(t, err)
}

func TestHubUnsubscribesOnDisconnect(t *testing.T) {
	broker := memory.NewBroker()
	hub := fanout.NewHub(broker, allowList{"u-1|pulse.p-1": true}, secret)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv, "u-1")
	c.send(t, "subscribe", "pulse.p-1")
	c.next(t)
	require.Equal(t, 1, broker.Subscribers("pulse.p-1"))

	c.conn.Close()
	assert.Eventually(t, func() bool {
		return broker.Subscribers("pulse.p-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestParseToken(t *testing.T) {
	token, err := fanout.IssueToken(secret, "u-9", time.Minute)
	require.NoError(t, err)

	sub, err := fanout.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", sub)

	expired, err := fanout.IssueToken(secret, "u-9", -time.Minute)
	require.NoError(t, err)
	_, err = fanout.ParseToken(secret, expired)
	assert.Error(t, err)

	_, err = fanout.ParseToken(secret, "")
	assert.Error(t, err)

	_, err = fanout.ParseToken(nil, token)
	assert.True(t, errors.Is(err, fanout.ErrUnauthenticated))
}

