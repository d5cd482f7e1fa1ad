package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"

	"ms-concerthall/internal/config"
	"ms-concerthall/internal/logger"
)

// Open connects to the configured database, retrying the initial ping, and
// wraps the pool in a bun.DB with the matching dialect.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driverName, dialect, err := resolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var sqldb *sql.DB
	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to %s (attempt %d/%d)", cfg.Driver, i+1, maxRetries))

		sqldb, err = sql.Open(driverName, cfg.DSN)
		if err == nil {
			if err = sqldb.PingContext(ctx); err == nil {
				break
			}
			sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, maxRetries, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite allows one writer at a time; a single connection serializes
		// writes instead of surfacing SQLITE_BUSY to callers.
		sqldb.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	bunDB := bun.NewDB(sqldb, dialect)
	if cfg.Debug {
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return bunDB, nil
}

func resolveDriver(driver string) (string, schema.Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteshim.ShimName, sqlitedialect.New(), nil
	case config.DriverPostgres:
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
