// Package main is the entry point for the match voting API server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"thethird/src/app/server"
	"thethird/src/core/ports"
	"thethird/src/infra/cache"
	"thethird/src/infra/config"
	"thethird/src/infra/db"
	"thethird/src/infra/logger"
	"thethird/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Log.Level,
	)

	ctx := context.Background()

	store, closeStore, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var results ports.ResultsCache = cache.Noop{}
	switch {
	case cfg.Redis.Enabled():
		rc, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer rc.Close()
		results = rc
	case cfg.Storage.Driver == config.StorageMemory:
		results = cache.NewMemory()
	}

	return server.New(cfg, log, store, results).Run()
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (ports.VotingRepository, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		return repo.NewMemoryRepository(log), func() {}, nil
	}

	pg, err := db.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
	}
	return repo.NewPostgresRepository(pg, log), pg.Close, nil
}
