package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/config"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/api"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/authority"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	fanoutmemory "github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout/memory"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout/natsio"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/calendar"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/companion"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/memory"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/postgres"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/watcher"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second

	authorizerCacheSize = 4096
	authorizerCacheTTL  = time.Minute
)

type apiServer struct {
	c       *config.Config
	closers []io.Closer
	nc      *nats.Conn
	natsErr chan error
	closed  chan struct{}

	e       *echo.Echo
	watcher *watcher.Watcher
}

func newAPIServer(c *config.Config) (*apiServer, error) {
	s := &apiServer{
		c:       c,
		natsErr: make(chan error, 1),
		closed:  make(chan struct{}),
	}

	store, err := s.openStore()
	if err != nil {
		s.Close()
		return nil, err
	}

	if c.Broker == config.BrokerNATS || c.AuthorityMode == config.AuthorityRemote {
		nc, err := connectNATS(c.NATSServerURL, "zunou-api", s.natsErr, s.closed)
		if err != nil {
			s.Close()
			return nil, errors.Wrap(err, "failed to connect to nats")
		}
		s.nc = nc
	}

	var broker fanout.Broker
	switch c.Broker {
	case config.BrokerNATS:
		broker = natsio.NewBroker(s.nc)
	case config.BrokerMemory, "":
		broker = fanoutmemory.NewBroker()
	default:
		s.Close()
		return nil, errors.Errorf("unknown broker %q", c.Broker)
	}

	var auth channels.Authorizer
	switch c.AuthorityMode {
	case config.AuthorityRemote:
		auth = authority.NewClient(s.nc)
	case config.AuthorityLocal, "":
		auth = channels.NewStoreAuthorizer(store)
	default:
		s.Close()
		return nil, errors.Errorf("unknown authority mode %q", c.AuthorityMode)
	}
	auth = channels.NewCachedAuthorizer(auth, authorizerCacheSize, authorizerCacheTTL)

	comp := companion.NewClient(companion.Config{
		StartURL:      c.CompanionStartURL,
		StopURL:       c.CompanionStopURL,
		PauseURL:      c.CompanionPauseURL,
		ResumeURL:     c.CompanionResumeURL,
		RecordingsURL: c.CompanionRecordingsURL,
		Timeout:       c.CompanionTimeout,
	})
	cal := calendar.NewClient(calendar.Config{
		APIURL:       c.CalendarAPIURL,
		TokenURL:     c.CalendarTokenURL,
		ClientID:     c.CalendarClientID,
		ClientSecret: c.CalendarClientSecret,
	})

	bc := fanout.NewBroadcaster(broker, store.Events())
	coordinator := lifecycle.NewCoordinator(store, cal, comp, bc, nil)

	hub := fanout.NewHub(broker, auth, []byte(c.JWTSecret))

	h := api.NewHandler(coordinator, store.Events(), hub)
	if c.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, the API is unauthenticated and realtime subscriptions will be rejected")
	} else {
		h.RequireToken([]byte(c.JWTSecret))
	}
	if c.CompanionRecordingsURL != "" {
		h.AddHealthCheck("companion", comp.Healthy)
		s.watcher = watcher.New(comp, coordinator, c.WatchInterval)
	} else {
		log.Warn("COMPANION_RECORDINGS_URL is not set, companion watcher disabled")
	}
	if s.nc != nil {
		nc := s.nc
		h.AddHealthCheck("nats", func(context.Context) bool {
			return nc.IsConnected()
		})
	}

	s.e = echo.New()
	s.e.HideBanner = true
	s.e.Use(middleware.Recover())
	s.e.Use(logger())
	h.RegisterRoutes(s.e)

	return s, nil
}

func (s *apiServer) openStore() (storage.Interface, error) {
	switch s.c.Storage {
	case config.StoragePostgres:
		db, err := postgres.Open(s.c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db)
		return postgres.NewStore(db), nil
	case config.StorageMemory, "":
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	default:
		return nil, errors.Errorf("unknown storage %q", s.c.Storage)
	}
}

// Serve runs the HTTP server and the companion watcher until ctx is done or
// one of them fails.
func (s *apiServer) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)
	g.Go(func() error {
		log.WithField("addr", addr).Info("Starting API server")
		if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "api server failed")
		}
		return nil
	})

	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Run(ctx)
		})
	}

	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.closed:
			return errors.New("nats connection closed")
		}

		log.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *apiServer) Close() {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.nc.Close()
		}
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Warnf("close failed: %v", err)
		}
	}
	log.Info("API server shutdown successfully")
}

// RunServeAPI starts the session lifecycle API.
func RunServeAPI(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		defer setupLogging(c).Close()

		s, err := newAPIServer(c)
		if err != nil {
			log.Fatal(err)
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := s.Serve(ctx); err != nil {
			log.Error(err)
			return
		}
	}
}
