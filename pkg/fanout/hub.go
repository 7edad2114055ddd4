package fanout

import (
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/gobwas/ws"
	log "github.com/sirupsen/logrus"
)

// DefaultOutboxSize is the number of frames buffered per client
const DefaultOutboxSize = 64

// Hub serves websocket subscribers
type Hub struct {
	broker     Broker
	authorizer channels.Authorizer
	secret     []byte
	outboxSize int
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithOutboxSize sets the per client frame buffer.
func WithOutboxSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.outboxSize = n
		}
	}
}

// NewHub creates a hub authenticating subscribers with secret.
func NewHub(broker Broker, authorizer channels.Authorizer, secret []byte, opts ...HubOption) *Hub {
	h := &Hub{
		broker:     broker,
		authorizer: authorizer,
		secret:     secret,
		outboxSize: DefaultOutboxSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP authenticates the request and upgrades it to a websocket.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := ParseToken(h.secret, RequestToken(r))
	if err != nil {
		log.WithField("remote_addr", r.RemoteAddr).Infof("realtime connection rejected: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		log.Errorf("failed to upgrade to websocket: %v", err)
		return
	}
	defer conn.Close()

	metrics.SubscriberConnected()
	defer metrics.SubscriberDisconnected()

	log.WithField("user_id", userID).Info("realtime client connected")
	newClient(h, conn, userID).run(r.Context())
	log.WithField("user_id", userID).Info("realtime client disconnected")
}
