// Package metrics provides the Prometheus collectors of the session coordinator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// sessionTransitionsTotal counts persisted status changes.
	// Labels:
	//   - from: previous status, "NONE" on create
	//   - to: new status
	sessionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of persisted session status transitions",
		},
		[]string{"from", "to"},
	)

	// broadcastDeliveriesTotal counts channel publications.
	// Labels:
	//   - event: broadcast event name
	//   - status: "success" or "failed"
	broadcastDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Total number of broadcast publications per channel",
		},
		[]string{"event", "status"},
	)

	gatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Duration of outbound companion and calendar calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"gateway", "operation", "status"},
	)

	realtimeDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_dropped_total",
			Help: "Total number of events dropped because a client outbox was full",
		},
	)

	realtimeSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscribers",
			Help: "Number of connected realtime websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(sessionTransitionsTotal)
	prometheus.MustRegister(broadcastDeliveriesTotal)
	prometheus.MustRegister(gatewayCallDuration)
	prometheus.MustRegister(realtimeDroppedTotal)
	prometheus.MustRegister(realtimeSubscribers)
}

// RecordTransition records a persisted status change.
func RecordTransition(from, to string) {
	sessionTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordBroadcast records the outcome of one channel publication.
func RecordBroadcast(event string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	broadcastDeliveriesTotal.WithLabelValues(event, status).Inc()
}

// ObserveGatewayCall records the duration of an outbound call started at
// start.
func ObserveGatewayCall(gateway, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	gatewayCallDuration.WithLabelValues(gateway, operation, status).Observe(time.Since(start).Seconds())
}

// SubscriberConnected and SubscriberDisconnected track realtime clients.
func SubscriberConnected() {
	realtimeSubscribers.Inc()
}

func SubscriberDisconnected() {
	realtimeSubscribers.Dec()
}

// RecordDropped counts an event that was not delivered to a slow client.
func RecordDropped() {
	realtimeDroppedTotal.Inc()
}
