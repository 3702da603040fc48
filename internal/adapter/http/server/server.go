package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Temutjin2k/bookshelf-auth/config"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/middleware"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *Handlers
	m      *middleware.Middleware

	addr string
	cfg  config.HTTPConfig
	log  logger.Logger
}

// Handlers groups the transport handlers served by the API.
type Handlers struct {
	Health    *handler.Health
	Auth      *handler.Auth
	Favorites *handler.Favorites
	Feed      *handler.FavoritesFeed
}

func New(cfg config.HTTPConfig, routes *Handlers, m *middleware.Middleware, corsOrigins []string, log logger.Logger) (*API, error) {
	if routes == nil || routes.Auth == nil || routes.Favorites == nil || routes.Health == nil {
		return nil, errors.New("auth, favorites and health handlers are required")
	}
	if m == nil {
		return nil, errors.New("middleware is required")
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      m,
		addr:   cfg.Addr(),
		cfg:    cfg,
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(middleware.CORS(corsOrigins)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return api, nil
}

// Handler returns the fully wrapped root handler.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until Stop is called. It returns nil after a graceful shutdown.
func (a *API) Run(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "http_server_start")

	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.addr, err)
	}

	a.log.Info(ctx, "started http server", "address", ln.Addr().String())
	if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies middlewares to the mux, outermost first.
func (a *API) withMiddleware(cors func(http.Handler) http.Handler) http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Metrics(
					cors(
						a.m.Auth(a.mux),
					),
				),
			),
		),
	)
}
