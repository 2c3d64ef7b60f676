package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type DB struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger
}

// New opens a connection pool and pings it until the database answers or
// 30s of retries pass. Session stores often start alongside the database
// container, so the first pings are allowed to fail.
func New(ctx context.Context, cfg Config, logger *zerolog.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).Dur("wait", wait).Msg("database ping failed, retrying")
	}
	ping := func() error {
		return pool.Ping(ctx)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("database connected")

	return &DB{Pool: pool, logger: logger}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}
