package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docgeo/internal/common"
	repo "github.com/joseph-ayodele/docgeo/internal/repository"
)

// ConnectDB opens Postgres when a DSN is set, otherwise SQLite when a path is set,
// and migrates the schema. It returns nil, nil when neither is configured.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repo.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		db  *repo.DB
		err error
	)
	switch {
	case cfg.DSN != "":
		db, err = repo.Open(ctx, repo.Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
	case cfg.SQLitePath != "":
		db, err = repo.OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		logger.Warn("no database configured, results will not be stored")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *repo.DB, logger *slog.Logger, timeout time.Duration) error {
	logger.Debug("pinging database")
	if err := db.HealthCheck(ctx, timeout); err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// CloseDB closes the database connections gracefully
func CloseDB(db *repo.DB, logger *slog.Logger) {
	if db == nil {
		logger.Debug("no database to close")
		return
	}
	db.Close()
}
