package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/ff-settlement/internal/logger"
)

// OpenPostgres connects to PostgreSQL, retrying with exponential backoff until
// the database answers a ping or maxElapsed passes
func OpenPostgres(ctx context.Context, dsn string, debug bool, maxElapsed time.Duration) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	var db *gorm.DB
	connect := func() error {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = conn
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = maxElapsed

	err := backoff.RetryNotify(connect, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
