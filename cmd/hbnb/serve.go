package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hbnb/rental-api/internal/api"
	"github.com/hbnb/rental-api/internal/core/ports"
	"github.com/hbnb/rental-api/internal/core/service"
	"github.com/hbnb/rental-api/internal/pkg/config"
	"github.com/hbnb/rental-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	log := logger.Component("http")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	facade := service.NewFacade(b.repos, logger.Component("facade"))
	if cfg.Store.Backend == config.BackendMemory {
		// Nothing persists between runs, so the memory store is seeded on every start.
		if err := seed(ctx, facade, cfg); err != nil {
			return err
		}
	}

	authService := service.NewAuthService(facade, b.denylist, cfg.JWTSecret, cfg.TokenTTL)
	e := api.NewRouter(api.Deps{
		Users:     facade,
		Places:    facade,
		Amenities: facade,
		Reviews:   facade,
		Auth:      authService,
		Health:    b.health,
		Logger:    log,
	})

	port := cfg.Port
	if p := c.String("port"); p != "" {
		port = p
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}

// seed creates the default amenity catalogue and, when configured, the
// bootstrap administrator.
func seed(ctx context.Context, facade *service.Facade, cfg *config.Config) error {
	log := logger.Component("seed")

	created, err := facade.SeedAmenities(ctx, service.DefaultAmenities)
	if err != nil {
		return err
	}
	log.Info().Int("created", created).Msg("amenities seeded")

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Debug().Msg("no admin configured")
		return nil
	}
	admin, err := facade.EnsureAdmin(ctx, ports.UserInput{
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin ready")
	return nil
}
