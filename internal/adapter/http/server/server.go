package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/bus-tracker/config"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/bus-tracker/internal/adapter/http/ws"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

const defaultShutdownTimeout = 5 * time.Second

// Registry is closed after the listener stops so open websocket sessions get a close frame.
type Registry interface {
	Close(ctx context.Context)
}

type Handlers struct {
	Health   *handler.Health
	Bus      *handler.Bus
	Route    *handler.Route
	Location *handler.Location
	Stop     *handler.Stop
	Feed     *handler.Feed
	Tracking *wshandler.TrackingWS
}

type API struct {
	mux      *http.ServeMux
	server   *http.Server
	routes   Handlers
	m        *middleware.Middleware
	registry Registry

	addr string
	cfg  config.ServerConfig
	log  logger.Logger
}

func New(cfg config.ServerConfig, routes Handlers, registry Registry, log logger.Logger) (*API, error) {
	if routes.Health == nil || routes.Bus == nil || routes.Route == nil || routes.Location == nil ||
		routes.Stop == nil || routes.Feed == nil || routes.Tracking == nil {
		return nil, errors.New("all http handlers are required")
	}

	api := &API{
		mux:      http.NewServeMux(),
		routes:   routes,
		m:        middleware.NewMiddleware(log),
		registry: registry,
		addr:     cfg.Addr(),
		cfg:      cfg,
		log:      log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return api, nil
}

// Handler returns the fully wrapped router.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	err := a.server.Shutdown(ctx)

	// Shutdown does not wait for hijacked connections.
	if a.registry != nil {
		a.registry.Close(ctx)
	}

	if err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(a.cfg.Name)(a.mux))))
}
