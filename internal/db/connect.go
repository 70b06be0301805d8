package db

import (
	"context"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool against dsn and waits for the first ping. A
// maxConns of zero keeps the pgx default. Failures are fatal.
func Connect(dsn string, maxConns int32) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("invalid DATABASE_URL", "error", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.RuntimeParams["application_name"] = "rps-escrow"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool
}
