package cmd

import (
	"fmt"

	"socialfeed/db"

	"github.com/urfave/cli/v2"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Creates or upgrades the Postgres schema used by the postgres store. MongoDB needs no migrations.`,
		Flags:       postgresFlags(),
		Action: func(ctx *cli.Context) error {
			fmt.Printf("Database configured: %s:%d/%s\n",
				ctx.String("db-host"),
				ctx.Int("db-port"),
				ctx.String("db-name"),
			)
			return db.Migrate(postgresConfig(ctx))
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migration",
		Description: `Rolls back the last database migration`,
		Flags:       postgresFlags(),
		Action: func(ctx *cli.Context) error {
			fmt.Printf("Database configured: %s:%d/%s\n",
				ctx.String("db-host"),
				ctx.Int("db-port"),
				ctx.String("db-name"),
			)
			return db.Rollback(postgresConfig(ctx))
		},
	}
}
