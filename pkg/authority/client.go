package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

type AuthorizeError struct {
	Reason  string
	Details interface{}
}

func NewAuthorizeError(reason string, details interface{}) error {
	return &AuthorizeError{
		Reason:  reason,
		Details: details,
	}
}

func (e *AuthorizeError) Error() string {
	return fmt.Sprintf("authorization failed, reason: %s", e.Reason)
}

func IsAuthorizationError(e error) bool {
	var aerr *AuthorizeError
	return errors.As(e, &aerr)
}

type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// Client delegates channel authorization to the authority service. It
// implements channels.Authorizer.
type Client struct {
	nc      requester
	timeout time.Duration
}

func NewClient(nc *nats.Conn) *Client {
	return &Client{
		nc:      nc,
		timeout: 10 * time.Second,
	}
}

func (c *Client) Authorize(ctx context.Context, userID string, ch channels.Channel) (bool, error) {
	req := Request{
		Operation: operationAuthorize,
		Arguments: &AuthorizeArguments{
			UserID:  userID,
			Channel: ch.String(),
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(ctx, Subject, data)
	if err != nil {
		return false, errors.Wrap(err, "authority request failed")
	}

	return decodeAuthorizeReply(msg.Data)
}

func decodeAuthorizeReply(data []byte) (bool, error) {
	reply := Reply{}
	if err := json.Unmarshal(data, &reply); err != nil {
		return false, err
	}

	switch reply.Status {
	case ReplyStatusOK:
		// Rerun Unmarshal with the proper Result type
		authResult := &AuthorizeResult{}
		reply := Reply{Result: authResult}
		if err := json.Unmarshal(data, &reply); err != nil {
			return false, err
		}
		return authResult.Granted, nil
	case ReplyStatusAbort:
		abortResult := &AbortResult{}
		reply := Reply{Result: abortResult}
		if err := json.Unmarshal(data, &reply); err != nil {
			return false, err
		}
		return false, NewAuthorizeError(abortResult.Reason, abortResult.Details)
	}
	return false, fmt.Errorf("unexpected reply for authorization request")
}
