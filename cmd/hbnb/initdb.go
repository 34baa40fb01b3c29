package main

import (
	"github.com/urfave/cli/v2"

	"github.com/hbnb/rental-api/internal/core/service"
	"github.com/hbnb/rental-api/pkg/logger"
)

func initDBCommand(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	log := logger.Component("init-db")

	b, err := openBackend(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.migrate != nil {
		if err := b.migrate(c.Context); err != nil {
			return err
		}
		log.Info().Str("backend", cfg.Store.Backend).Msg("schema ready")
	} else {
		log.Warn().Msg("in-memory backend has no schema and keeps nothing after exit")
	}

	if c.Bool("skip-seed") {
		return nil
	}
	return seed(c.Context, service.NewFacade(b.repos, logger.Component("facade")), cfg)
}
