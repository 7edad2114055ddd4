package authority

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	nats "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuthorizer struct {
	granted bool
	err     error
}

func (a staticAuthorizer) Authorize(ctx context.Context, userID string, ch channels.Channel) (bool, error) {
	return a.granted && userID == "u-1", a.err
}

// loopback hands requests straight to a handler instead of going through NATS.
type loopback struct {
	h       *Handler
	subject string
}

func (l *loopback) RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error) {
	l.subject = subj
	return &nats.Msg{Subject: subj, Data: l.h.handle(ctx, data)}, nil
}

func newLoopbackClient(auth channels.Authorizer) (*Client, *loopback) {
	lb := &loopback{h: NewHandler(nil, auth)}
	c := NewClient(nil)
	c.nc = lb
	return c, lb
}

func TestClientGranted(t *testing.T) {
	c, lb := newLoopbackClient(staticAuthorizer{granted: true})

	ok, err := c.Authorize(context.Background(), "u-1", channels.Pulse("p-1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Subject, lb.subject)

	ok, err = c.Authorize(context.Background(), "u-2", channels.Pulse("p-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientTechnicalException(t *testing.T) {
	c, _ := newLoopbackClient(staticAuthorizer{err: errors.New("db down")})

	_, err := c.Authorize(context.Background(), "u-1", channels.Pulse("p-1"))
	require.Error(t, err)
	assert.True(t, IsAuthorizationError(err))

	var aerr *AuthorizeError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ReasonTechnicalException, aerr.Reason)
}

func TestHandlerInvalidChannel(t *testing.T) {
	h := NewHandler(nil, staticAuthorizer{granted: true})
	data, _ := json.Marshal(Request{
		Operation: "authorize",
		Arguments: &AuthorizeArguments{UserID: "u-1", Channel: "nope"},
	})

	_, err := decodeAuthorizeReply(h.handle(context.Background(), data))
	var aerr *AuthorizeError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ReasonInvalidChannel, aerr.Reason)
}

func TestHandlerMalformedRequest(t *testing.T) {
	h := NewHandler(nil, staticAuthorizer{granted: true})

	_, err := decodeAuthorizeReply(h.handle(context.Background(), []byte("{")))
	var aerr *AuthorizeError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ReasonTechnicalException, aerr.Reason)

	data, _ := json.Marshal(Request{Operation: "revoke"})
	_, err = decodeAuthorizeReply(h.handle(context.Background(), data))
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ReasonUnsupportedOperation, aerr.Reason)
}

func TestSubscribeWithoutConnection(t *testing.T) {
	_, err := NewHandler(nil, staticAuthorizer{}).Subscribe()
	assert.Error(t, err)
}
