package server

import (
	"time"

	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// connectNATS connects with drain on shutdown. Asynchronous errors are sent
// to errCh without blocking, and closed is closed once the connection is
// gone.
func connectNATS(url, name string, errCh chan<- error, closed chan<- struct{}) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.DrainTimeout(10*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			fields := log.Fields{}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			log.WithFields(fields).Errorf("nats error: %v", err)
			select {
			case errCh <- err:
			default:
			}
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("nats connection closed")
			close(closed)
		}))
}
