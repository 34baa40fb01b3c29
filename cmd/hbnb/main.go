package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hbnb/rental-api/internal/pkg/config"
	"github.com/hbnb/rental-api/pkg/logger"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hbnb",
		Usage: "Rental listing API: users, places, amenities and reviews",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Dotenv files loaded before reading the environment",
				Value: cli.NewStringSlice(".env"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override LOG_LEVEL (trace, debug, info, warn, error)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "Override PORT",
					},
				},
			},
			{
				Name:   "init-db",
				Usage:  "Create the schema or indexes, seed default amenities and the configured admin",
				Action: initDBCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "skip-seed",
						Usage: "Only create the schema",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Bulk-load users, amenities, places and reviews from a JSON fixture",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON fixture",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of import workers",
						Value: 4,
					},
				},
			},
		},
	}
}

// setup loads dotenv files and configuration and initialises the logger.
// The validated config is stashed in the app metadata for the commands.
func setup(c *cli.Context) error {
	if err := config.LoadDotEnv(c.StringSlice("env-file")...); err != nil {
		return err
	}

	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "hbnb",
		Env:     cfg.Env,
	})

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
