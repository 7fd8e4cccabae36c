package main

import (
	"context"

	"go.uber.org/zap"

	config "github.com/NordCoder/Turnstile/internal/config/api-gateway"
	"github.com/NordCoder/Turnstile/internal/domain/outbox"
	"github.com/NordCoder/Turnstile/internal/domain/user"
	"github.com/NordCoder/Turnstile/internal/repository/memory"
	pg "github.com/NordCoder/Turnstile/internal/repository/postgres"
	"github.com/NordCoder/Turnstile/internal/services/api-gateway/users"
)

type stores struct {
	users  user.Repo
	outbox outbox.Repository
	tx     users.Transactor
	health func(context.Context) error
	close  func()
}

func initStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		return newMemoryStores(), nil
	}

	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:  pg.NewUserRepo(db),
		outbox: pg.NewOutboxRepo(db),
		tx:     pg.NewTransactor(db, logger),
		health: db.Ping,
		close:  db.Close,
	}, nil
}

func newMemoryStores() *stores {
	return &stores{
		users:  memory.NewUserRepo(),
		outbox: memory.NewOutboxRepo(),
		tx:     memory.Transactor{},
		health: func(context.Context) error { return nil },
		close:  func() {},
	}
}
