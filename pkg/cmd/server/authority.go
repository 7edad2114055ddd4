package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jose-offshrly/zunou-services-sub021/config"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/authority"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/postgres"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type authorityServer struct {
	db     io.Closer
	nc     *nats.Conn
	errCh  chan error
	closed chan struct{}
	h      *authority.Handler
}

func newAuthorityServer(c *config.Config) (*authorityServer, error) {
	s := &authorityServer{
		errCh:  make(chan error, 1),
		closed: make(chan struct{}),
	}

	db, err := postgres.Open(c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	s.db = db

	nc, err := connectNATS(c.NATSServerURL, "zunou-authority", s.errCh, s.closed)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to nats")
	}
	s.nc = nc

	auth := channels.NewStoreAuthorizer(postgres.NewStore(db))
	s.h = authority.NewHandler(nc, auth)

	return s, nil
}

// Serve answers authorization requests until ctx is done or the connection
// closes.
func (s *authorityServer) Serve(ctx context.Context) error {
	log.Info("Starting authority server")

	if _, err := s.h.Subscribe(); err != nil {
		return errors.Wrap(err, "failed to subscribe")
	}

	log.WithField("subject", authority.Subject).Info("Authority server started successfully")

	select {
	case <-ctx.Done():
		return nil
	case <-s.closed:
	}

	// Check if there was an error
	select {
	case err := <-s.errCh:
		return err
	default:
		return errors.New("nats connection closed")
	}
}

func (s *authorityServer) Close() {
	log.Info("Shutting down authority server")
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.nc.Close()
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Info("Authority server shutdown successfully")
}

// RunServeAuthority starts the channel authority responder.
func RunServeAuthority(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		defer setupLogging(c).Close()

		s, err := newAuthorityServer(c)
		if err != nil {
			log.Fatal(err)
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := s.Serve(ctx); err != nil {
			log.Error(err)
		}
	}
}
