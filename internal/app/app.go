package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/bookshelf-auth/config"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/events"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/middleware"
	httpserver "github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/server"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/oidc"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/bookshelf-auth/internal/adapter/rabbit"
	"github.com/Temutjin2k/bookshelf-auth/internal/service/auth"
	"github.com/Temutjin2k/bookshelf-auth/internal/service/favorites"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/passhash"
	postgresclient "github.com/Temutjin2k/bookshelf-auth/pkg/postgres"
	"github.com/Temutjin2k/bookshelf-auth/pkg/rabbit"
	"github.com/Temutjin2k/bookshelf-auth/pkg/trm"
	ws "github.com/Temutjin2k/bookshelf-auth/pkg/wsHub"
	"golang.org/x/sync/errgroup"

	_ "github.com/Temutjin2k/bookshelf-auth/docs" // swagger spec for /swagger/
)

// App owns every long lived resource of the service.
type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbit     *rabbit.RabbitMQ // nil when event publishing to RabbitMQ is disabled
	hub        *ws.ConnectionHub
	fanout     *events.Fanout
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

// New connects to the backing services and wires the application.
// Resources opened before a failure are released.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (app *App, err error) {
	ctx = wrap.WithAction(ctx, "app_init")
	a := &App{cfg: cfg, log: log}

	defer func() {
		if err != nil {
			a.close(ctx)
		}
	}()

	a.postgresDB, err = postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	log.Info(ctx, "connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Database)

	txManager := trm.New(a.postgresDB.Pool, trm.WithTimeout(cfg.Database.QueryTimeout))

	// repositories
	userRepo := postgres.NewUserRepo(a.postgresDB.Pool, cfg.Database.QueryTimeout)
	favoriteRepo := postgres.NewFavoriteRepo(a.postgresDB.Pool, cfg.Database.QueryTimeout)

	tokenSvc, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to setup token service: %w", err)
	}

	// an untyped nil keeps federated login disabled
	var provider auth.IdentityProvider
	if cfg.OAuth.Enabled() {
		p, err := oidc.New(ctx, oidc.Config{
			IssuerURL:    cfg.OAuth.IssuerURL,
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Timeout:      cfg.OAuth.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to setup identity provider: %w", err)
		}
		provider = p
		log.Info(ctx, "federated login enabled", "issuer", cfg.OAuth.IssuerURL)
	}

	// events
	a.hub = ws.NewConnHub(log)
	sinks := []events.Sink{events.NewWSSink(a.hub)}
	if cfg.RabbitMQ.Enabled {
		a.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to setup rabbitmq: %w", err)
		}
		producer, err := rabbitadapter.NewEventProducer(a.rabbit, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to setup event producer: %w", err)
		}
		sinks = append(sinks, producer)
	}
	a.fanout = events.NewFanout(log, events.DefaultQueueSize, sinks...)

	// services
	authSvc := auth.NewAuthService(userRepo, passhash.New(cfg.Auth.BcryptCost), tokenSvc, provider, a.fanout, txManager, log)
	favoritesSvc := favorites.NewFavoritesService(favoriteRepo, a.fanout, txManager, log)

	routes := &httpserver.Handlers{
		Health:    handler.NewHealth(cfg.ServiceName, cfg.Version, log),
		Auth:      handler.NewAuth(authSvc, log),
		Favorites: handler.NewFavorites(favoritesSvc, log),
		Feed:      handler.NewFavoritesFeed(authSvc, favoritesSvc, a.hub, cfg.CORS.AllowedOrigins, log),
	}
	mid := middleware.NewMiddleware(authSvc, cfg.ServiceName, log)

	a.httpServer, err = httpserver.New(cfg.HTTP, routes, mid, cfg.CORS.AllowedOrigins, log)
	if err != nil {
		return nil, fmt.Errorf("failed to setup http server: %w", err)
	}

	return a, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// events outlive the HTTP server so that requests in flight can still publish
	eventsCtx, stopEvents := context.WithCancel(context.WithoutCancel(ctx))
	defer stopEvents()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.fanout.Run(eventsCtx)
	})
	g.Go(func() error {
		return a.httpServer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info(wrap.WithAction(context.WithoutCancel(gctx), "app_shutdown"), "shutting down application")

		err := a.httpServer.Stop(context.WithoutCancel(gctx))
		stopEvents()
		return err
	})

	a.log.Info(ctx, "service started")
	err := g.Wait()

	a.close(context.WithoutCancel(ctx))
	a.log.Info(ctx, "service closed")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// close releases resources in reverse start order. Safe on a partially built App.
func (a *App) close(ctx context.Context) {
	if a.hub != nil {
		a.hub.Close()
	}

	if a.rabbit != nil {
		if err := a.rabbit.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}

	a.postgresDB.Close()
}
