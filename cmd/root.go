package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "socialfeed",
		Usage: "A social feed API backed by a document store",
		Description: `An HTTP API for apps to post feeds, like them and comment
		on them. Every feed and comment is shown with the name and avatar of
		its author, looked up in the user directory.

		Feeds, comments and users are kept in MongoDB or Postgres. An in-memory
		store is available for local development.

		Flags can generally be set via environment variables, e.g.:

		--store => SOCIALFEED_STORE=mongo
		--port => SOCIALFEED_PORT=3000
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"SOCIALFEED_LOG_LEVEL"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := logrus.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			userCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
