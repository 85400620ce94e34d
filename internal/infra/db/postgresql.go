package db

import (
	"log/slog"

	"gorm.io/driver/postgres"

	"github.com/finance-tracker/ledger/config"
)

// NewPostgresConnection opens the production PostgreSQL database with the
// configured pool. Aggregate reads take row locks only on this dialect.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	database, err := open(postgres.Open(cfg.URL), poolSettings{
		maxOpen:     cfg.MaxOpenConns,
		maxIdle:     cfg.MaxIdleConns,
		maxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Database connection established",
		"dialect", database.Dialect(),
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return database, nil
}
