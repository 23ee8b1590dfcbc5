package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned by Connect when no DSN was configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

// PoolOptions bounds the connection pool of the cache database. Zero values
// keep the database/sql defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultPool suits a single API or worker process sharing one cache table.
var DefaultPool = PoolOptions{
	MaxOpenConns:    10,
	MaxIdleConns:    5,
	ConnMaxIdleTime: 5 * time.Minute,
	PingTimeout:     5 * time.Second,
}

// Connect opens the cache database through GORM, applies pool, and pings it.
// SQL statement logging is silenced; slow queries still surface as warnings.
func Connect(ctx context.Context, dsn string, pool ...PoolOptions) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	opts := DefaultPool
	if len(pool) > 0 {
		opts = pool[0]
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = DefaultPool.PingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOptional is Connect for callers that can run without postgres: any
// failure is logged and reported as a nil DB with a no-op cleanup.
func ConnectOptional(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() {}

	db, err := Connect(ctx, dsn)
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.Debug("POSTGRES_DSN not set, skipping postgres cache store")
		return nil, noop
	case err != nil:
		logger.Warn("postgres unavailable, falling back to a local cache store", slog.String("error", err.Error()))
		return nil, noop
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("postgres handle unusable, falling back to a local cache store", slog.String("error", err.Error()))
		return nil, noop
	}
	logger.Info("postgres cache database connected")
	return db, func() { _ = sqlDB.Close() }
}
