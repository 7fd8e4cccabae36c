package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	authcore "github.com/NordCoder/Turnstile/internal/auth"
	config "github.com/NordCoder/Turnstile/internal/config/api-gateway"
	"github.com/NordCoder/Turnstile/internal/domain"
	"github.com/NordCoder/Turnstile/internal/domain/outbox"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting turnstile",
		zap.String("env", cfg.App.Env),
		zap.String("ver", cfg.App.Version),
		zap.String("store", cfg.Store.Driver),
	)

	otelShutdown, err := initOTel(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	st, err := initStores(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("store init", zap.Error(err))
	}
	defer st.close()

	codec, err := authcore.NewJWTCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		logger.Fatal("jwt codec", zap.Error(err))
	}

	var events outbox.Repository
	stopEvents := func() {}
	if cfg.Kafka.Enable {
		stopEvents, err = startEvents(rootCtx, cfg, logger, st)
		if err != nil {
			logger.Fatal("kafka init", zap.Error(err))
		}
		events = st.outbox
	}

	handler, err := buildRouter(routerDeps{
		cfg:    cfg,
		logger: logger,
		stores: st,
		codec:  codec,
		clock:  domain.SystemClock{},
		events: events,
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}
	httpSrv := buildHTTPServer(cfg, handler)

	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, logger) }()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal")
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopEvents()
	logger.Info("bye")
}
