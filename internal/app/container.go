package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillbridge/internal/config"
	"skillbridge/internal/database"
	"skillbridge/internal/database/migration"
	dbpostgres "skillbridge/internal/database/postgres"
	"skillbridge/internal/database/seeder"
	"skillbridge/internal/infrastructure/cache"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/ws"
	"skillbridge/migrations"
)

// Container owns the long-lived resources and releases them in Close.
type Container struct {
	Config config.Config
	Log    *logger.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, log *logger.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.RunMigrations {
		runner := migration.Runner{FS: migrations.FS, Logger: log}
		if cfg.Database.MigrationsDir != "" {
			runner = migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: log}
		}
		applied, err := runner.Run(ctx, db.SQLDB())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied", "count", applied)
	}

	if cfg.Database.RunSeeders {
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("seeders applied")
	}

	redis := cache.NewRedis(ctx, cfg.Redis, log)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	return &Container{Config: cfg, Log: log, DB: db, Cache: redis, Hub: hub, stopHub: stopHub}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
