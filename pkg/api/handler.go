package api

import (
	"context"
	"net/http"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// SessionService is the lifecycle surface exposed over HTTP
type SessionService interface {
	Create(ctx context.Context, req lifecycle.CreateRequest) (*model.Session, error)
	UpdateStatus(ctx context.Context, id string, next model.Status) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context, statuses ...model.Status) ([]model.Session, error)
}

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) bool

// Handler contains all properties to serve the API
type Handler struct {
	sessions SessionService
	events   storage.EventStore
	realtime http.Handler
	checks   map[string]HealthCheck
	secret   []byte
}

// NewHandler create a new API handler. realtime may be nil when the
// websocket hub is not served by this node.
func NewHandler(sessions SessionService, events storage.EventStore, realtime http.Handler) *Handler {
	return &Handler{
		sessions: sessions,
		events:   events,
		realtime: realtime,
		checks:   make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a dependency check reported by /healthz.
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// RequireToken makes every /api/v1 route except the realtime hub require a
// subscriber token signed with secret. The hub checks tokens itself.
func (h *Handler) RequireToken(secret []byte) {
	h.secret = secret
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	e.GET("/healthz", h.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var mw []echo.MiddlewareFunc
	if len(h.secret) > 0 {
		mw = append(mw, authenticate(h.secret))
	}

	api := e.Group("/api/v1")
	api.GET("/sessions", h.handleFetchSessions, mw...)
	api.POST("/sessions", h.handleCreateSession, mw...)
	api.GET("/sessions/:id", h.handleGetSessionByID, mw...)
	api.PUT("/sessions/:id/status", h.handleUpdateSessionStatus, mw...)
	api.GET("/sessions/:id/attendees", h.handleFetchAttendees, mw...)

	api.GET("/events", h.handleFetchEvents, mw...)

	if h.realtime != nil {
		api.GET("/realtime", echo.WrapHandler(h.realtime))
	}
}
