package app

import (
	"context"
	"log"
	"os"
	"time"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	"skill-twin/internal/database/migration"
	dbpostgres "skill-twin/internal/database/postgres"
	"skill-twin/internal/database/seeder"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/ws"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir}).Run(migCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.App.SeedOnStart {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), time.Minute)
		defer seedCancel()
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(seedCtx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	redis := cache.NewRedis(logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redis,
		Hub:    hub,
		Logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
