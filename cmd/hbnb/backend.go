package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hbnb/rental-api/internal/api/handler"
	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
	"github.com/hbnb/rental-api/internal/infrastructure/db/memory"
	"github.com/hbnb/rental-api/internal/infrastructure/db/mongo"
	"github.com/hbnb/rental-api/internal/infrastructure/db/redis"
	"github.com/hbnb/rental-api/internal/infrastructure/db/relational"
	"github.com/hbnb/rental-api/internal/pkg/config"
)

// backend is the storage selected by STORE_BACKEND plus the token denylist.
type backend struct {
	repos    ports.Repositories
	denylist ports.TokenDenylist
	health   map[string]handler.Pinger
	// migrate creates tables or indexes; nil for the in-memory store.
	migrate func(ctx context.Context) error
	closers []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	domain.PasswordCost = cfg.BcryptCost

	b := &backend{health: map[string]handler.Pinger{}}
	if err := b.openStore(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openDenylist(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}

	log.Info().
		Str("backend", cfg.Store.Backend).
		Bool("redis_denylist", cfg.Redis.Addr != "").
		Msg("storage ready")
	return b, nil
}

func (b *backend) openStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.repos = memory.NewRepositories()

	case config.BackendPostgres, config.BackendMySQL:
		store, err := relational.Open(ctx, relational.Config{
			Dialect:         cfg.Store.Backend,
			DSN:             cfg.Store.DSN,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, store.Close)
		b.repos = store.Repositories()
		b.migrate = store.Migrate
		b.health[cfg.Store.Backend] = store

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		b.repos = mongo.NewRepositories(db)
		b.migrate = func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, db) }
		b.health["mongodb"] = mongo.NewPinger(client)

	default:
		return fmt.Errorf("unknown backend %q", cfg.Store.Backend)
	}
	return nil
}

func (b *backend) openDenylist(ctx context.Context, cfg *config.Config) error {
	if cfg.Redis.Addr == "" {
		b.denylist = memory.NewTokenDenylist()
		return nil
	}

	denylist, err := redis.Open(ctx, redis.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return err
	}
	b.closers = append(b.closers, denylist.Close)
	b.denylist = denylist
	b.health["redis"] = denylist
	return nil
}
