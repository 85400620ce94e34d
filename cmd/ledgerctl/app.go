package main

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/cache"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// app holds the connections opened for one command.
type app struct {
	database *db.Database
	redis    redis.UniversalClient
	embedded *miniredis.Miniredis
	useCases *dependency.UseCases
}

// openApp connects to the configured stores, or to SQLite with an embedded
// Redis when -sqlite is set. The schema is migrated on open.
func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	a := &app{}

	var err error
	if *sqliteDSN != "" {
		a.database, err = db.NewSQLiteConnection(*sqliteDSN)
		if err != nil {
			return nil, err
		}
		a.embedded, err = miniredis.Run()
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		a.redis = redis.NewClient(&redis.Options{Addr: a.embedded.Addr()})
	} else {
		a.database, err = db.NewPostgresConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = client
	}

	if err := a.database.AutoMigrate(model.AllModels()...); err != nil {
		a.close()
		return nil, err
	}

	a.useCases = dependency.NewUseCases(cfg, a.database, a.redis)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.embedded != nil {
		a.embedded.Close()
	}
	if a.database != nil {
		_ = a.database.Close()
	}
}
