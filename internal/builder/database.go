package builder

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexyai/drafter/internal/config"
	pkgRetry "github.com/lexyai/drafter/internal/pkg/retry"
	"go.uber.org/zap"
)

// setupDatabase opens the catalog pool. The first ping is retried because the
// database often comes up after the service in local stacks.
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingOpts := append(pkgRetry.DefaultRetryConfig().ToRetryOptions(),
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn("database not ready, retrying",
				zap.Uint("attempt", attempt+1),
				zap.Error(err),
			)
		}),
	)
	if err := retry.Do(func() error { return pool.Ping(ctx) }, pingOpts...); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}
