package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authcore "github.com/NordCoder/Turnstile/internal/auth"
	config "github.com/NordCoder/Turnstile/internal/config/api-gateway"
	"github.com/NordCoder/Turnstile/internal/domain"
	"github.com/NordCoder/Turnstile/internal/domain/outbox"
	"github.com/NordCoder/Turnstile/internal/obs"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/auth"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/users"
)

type routerDeps struct {
	cfg    *config.Config
	logger *zap.Logger
	stores *stores
	codec  *authcore.JWTCodec
	clock  domain.Clock
	// events is nil when user events are not published.
	events outbox.Repository
}

func buildRouter(d routerDeps) (http.Handler, error) {
	hasher, err := authcore.NewArgon2idHasher(d.cfg.Password.AsArgon2idParams())
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewIssuer(d.codec, auth.IssuerConfig{
		AccessTTL:    d.cfg.Auth.AccessTTL,
		RefreshTTL:   d.cfg.Auth.RefreshTTL,
		CookiePath:   d.cfg.Auth.CookiePath,
		CookieDomain: d.cfg.Auth.CookieDomain,
	})
	if err != nil {
		return nil, err
	}

	authUC := auth.NewUsecase(d.logger, d.stores.users, hasher, issuer, d.clock)
	authCtrl := auth.NewController(d.logger, authUC, auth.NewExtractor(d.codec), issuer, d.cfg.Server.MaxBodyBytes)
	usersSrv := users.NewServer(d.logger, users.New(d.stores.users, hasher, d.stores.tx, d.events), d.cfg.Server.MaxBodyBytes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(obs.HTTPObserver(d.logger))

	r.Get("/healthz", obs.HealthHandler(d.stores.health))
	r.Handle("/metrics", obs.MetricsHandler())

	authCtrl.Routes(r)
	usersSrv.Routes(r, authCtrl.RequireAccess)

	return obs.HTTPHandler(r, "turnstile"), nil
}

func buildHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}
