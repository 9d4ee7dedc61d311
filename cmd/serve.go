package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialfeed/config"
	"socialfeed/db"
	"socialfeed/feeds"
	"socialfeed/models"
	"socialfeed/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   3000,
			Usage:   "Port to listen on",
			EnvVars: []string{"SOCIALFEED_PORT"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML configuration file",
			EnvVars: []string{"SOCIALFEED_CONFIG"},
		},
	}

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the feed API",
		Description: `Starts the HTTP server on the specified or default port.

Connects to the configured document store first, retrying until the
connect timeout passes.`,
		Flags: append(flags, storeFlags()...),
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log.WithFields(log.Fields{
				"store": ctx.String("store"),
			}).Info("Connecting to store")

			store, err := db.Open(ctx.Context, storeOptions(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			svc := feeds.NewService(store, models.Author{
				Username:     cfg.Authors.PlaceholderName,
				ProfileImage: cfg.Authors.PlaceholderImage,
			})

			app := server.Server(&server.ServerConfig{
				Service: svc,
				Store:   store,
				Server:  cfg.Server,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			log.WithFields(log.Fields{
				"port":     ctx.Int("port"),
				"basePath": cfg.Server.BasePath,
			}).Info("Starting server")

			return app.Listen(fmt.Sprintf(":%d", ctx.Int("port")))
		},
	}
}
