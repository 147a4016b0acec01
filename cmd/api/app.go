package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/srgjo27/charter_flights/internal/adapter/cache"
	"github.com/srgjo27/charter_flights/internal/adapter/repository/gormstore"
	"github.com/srgjo27/charter_flights/internal/adapter/repository/postgres"
	"github.com/srgjo27/charter_flights/internal/core/ports"
	"github.com/srgjo27/charter_flights/internal/platform/config"
	"github.com/srgjo27/charter_flights/internal/platform/database"
)

type repositories struct {
	flights  ports.FlightRepository
	bookings ports.BookingRepository
	quotes   ports.QuoteRepository
	close    func() error
}

// openRepositories connects the configured backend. Postgres schemas are
// migrated by the migrate command; the sqlite store migrates on open.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (*repositories, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		return gormRepositories(db)
	default:
		db, err := database.NewPostgresDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return postgresRepositories(db), nil
	}
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		flights:  postgres.NewFlightRepository(db),
		bookings: postgres.NewBookingRepository(db),
		quotes:   postgres.NewQuoteRepository(db),
		close:    db.Close,
	}
}

func gormRepositories(db *gorm.DB) (*repositories, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	return &repositories{
		flights:  gormstore.NewFlightRepository(db),
		bookings: gormstore.NewBookingRepository(db),
		quotes:   gormstore.NewQuoteRepository(db),
		close:    sqlDB.Close,
	}, nil
}

// openCache returns nil when redis is disabled, which turns caching off.
func openCache(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) (ports.EmptyLegCache, func() error, error) {
	if !cfg.Enabled {
		logger.Info("redis disabled, empty leg searches are not cached")
		return nil, func() error { return nil }, nil
	}

	logger.WithField("addr", cfg.Addr()).Info("connecting to redis")
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connected")

	return cache.NewEmptyLegCache(rdb, cfg.TTL), rdb.Close, nil
}
