package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

// OpenPostgres opens dsn through the pgx stdlib driver and verifies
// connectivity, retrying the ping with backoff. A non-empty key replaces the password embedded in dsn.
func OpenPostgres(ctx context.Context, dsn, key string) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("database: parse postgres dsn: %w", err)
	}
	if key != "" {
		connCfg.Password = key
	}

	db := stdlib.OpenDB(*connCfg)

	if err := pingWithRetry(ctx, "postgres", defaultBackOff(), db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: postgres ping: %w", err)
	}

	log.Info().Str("host", connCfg.Host).Str("db", connCfg.Database).Msg("✅ Connected to Postgres")
	return db, nil
}
