package main

import (
	"context"
	"fmt"

	"ecostudy/internal/config"
	"ecostudy/internal/logger"
	"ecostudy/internal/repository"
	"ecostudy/internal/repository/db"
	"ecostudy/internal/repository/docstore"
)

// openStore opens the repositories for the configured driver. The returned
// func releases the connection.
func openStore(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := docstore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := docstore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Infow("store_opened", "driver", cfg.Driver, "database", cfg.MongoDatabase)
		return docstore.NewRepository(database), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Errorw("failed to disconnect mongodb", "err", err)
			}
		}, nil

	case config.DriverSQLite:
		sqlDB, err := db.InitDB(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite: %w", err)
		}
		log.Infow("store_opened", "driver", cfg.Driver, "path", cfg.Path)
		return repository.NewRepository(sqlDB), func() {
			if err := sqlDB.Close(); err != nil {
				log.Errorw("failed to close sqlite", "err", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}
