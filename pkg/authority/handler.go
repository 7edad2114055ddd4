package authority

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Handler answers channel authorization requests with a local authorizer
type Handler struct {
	nc      *nats.Conn
	auth    channels.Authorizer
	timeout time.Duration
}

func NewHandler(nc *nats.Conn, auth channels.Authorizer) *Handler {
	return &Handler{
		nc:      nc,
		auth:    auth,
		timeout: 5 * time.Second,
	}
}

func (h *Handler) Subscribe() (*nats.Subscription, error) {
	if h.nc == nil {
		return nil, errors.New("connection to nats is missing")
	}

	return h.nc.QueueSubscribe(Subject, "authority", func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.nc.Publish(msg.Reply, h.handle(ctx, msg.Data)); err != nil {
			log.Errorf("authority failed to send reply: %v", err)
		}
	})
}

// handle always produces a reply. Failures are reported as abort replies.
func (h *Handler) handle(ctx context.Context, data []byte) []byte {
	res, err := h.handleAuthorizeRequest(ctx, data)
	if err != nil {
		log.Errorf("authority request failed: %v", err)
		res, _ = json.Marshal(Reply{
			Status: ReplyStatusAbort,
			Result: &AbortResult{
				Reason:  ReasonTechnicalException,
				Details: &ErrorDetails{Message: err.Error()},
			},
		})
	}
	return res
}

func (h *Handler) handleAuthorizeRequest(ctx context.Context, data []byte) ([]byte, error) {
	args := &AuthorizeArguments{}
	req := Request{Arguments: args}

	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	if req.Operation != "" && req.Operation != operationAuthorize {
		return json.Marshal(Reply{
			Status: ReplyStatusAbort,
			Result: &AbortResult{Reason: ReasonUnsupportedOperation},
		})
	}

	ch, err := channels.Parse(args.Channel)
	if err != nil {
		return json.Marshal(Reply{
			Status: ReplyStatusAbort,
			Result: &AbortResult{
				Reason:  ReasonInvalidChannel,
				Details: &ErrorDetails{Message: err.Error()},
			},
		})
	}

	granted, err := h.auth.Authorize(ctx, args.UserID, ch)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": args.UserID,
		"channel": args.Channel,
		"granted": granted,
	}).Debug("authority answered authorization request")

	return json.Marshal(Reply{
		Status: ReplyStatusOK,
		Result: &AuthorizeResult{Granted: granted},
	})
}
