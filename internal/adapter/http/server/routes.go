package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerInstance = "auth"

func (a *API) setupRoutes() {
	mux, r, m := a.mux, a.routes, a.m

	// System
	mux.HandleFunc("GET /health", r.Health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(swaggerInstance)))

	// Authentication
	mux.HandleFunc("POST /register", r.Auth.Register)
	mux.HandleFunc("POST /login", r.Auth.Login)
	mux.HandleFunc("GET /auth/provider/login", r.Auth.FederatedBegin)
	mux.HandleFunc("GET /auth/provider/callback", r.Auth.FederatedCallback)
	mux.Handle("GET /auth/me", m.RequireAuth(r.Auth.Me))

	// Favorites
	mux.Handle("POST /favorites/add", m.RequireAuth(r.Favorites.Add))
	mux.Handle("DELETE /favorites/delete", m.RequireAuth(r.Favorites.Remove))
	mux.Handle("GET /favorites", m.RequireAuth(r.Favorites.List))

	// Live feed, authenticated by the first websocket frame
	if r.Feed != nil {
		mux.HandleFunc("GET /ws/favorites", r.Feed.HandleWS)
	}
}
