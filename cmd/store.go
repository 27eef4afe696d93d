package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/they4kman/voxelsweep/config"
	"github.com/they4kman/voxelsweep/store"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// openDatabase opens the configured backend without any cache in front.
func openDatabase(ctx context.Context, config *config.Config) (store.ResultStore, func(), error) {
	switch config.Database.Driver {
	case "postgres":
		pg := store.NewPostgres(config.Database.DSN)
		return pg, func() {
			if err := pg.Close(context.WithoutCancel(ctx)); err != nil {
				log.WithError(err).Warn("closing postgres connection")
			}
		}, nil

	case "sqlite":
		sq, err := store.NewSQLite(config.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		if err := sq.Migrate(ctx); err != nil {
			sq.Close()
			return nil, nil, fmt.Errorf("migrating sqlite database: %w", err)
		}
		return sq, func() { sq.Close() }, nil

	case "memory":
		return store.NewMemory(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", config.Database.Driver)
}

// openStore opens the configured backend, behind the redis cache when one
// is configured.
func openStore(ctx context.Context, config *config.Config) (store.ResultStore, func(), error) {
	results, closeDatabase, err := openDatabase(ctx, config)
	if err != nil {
		return nil, nil, err
	}
	if config.Redis.Addr == "" {
		return results, closeDatabase, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	log.WithField("addr", config.Redis.Addr).Info("caching best records in redis")

	return store.NewCached(results, rdb, config.Redis.TTL), func() {
		rdb.Close()
		closeDatabase()
	}, nil
}
