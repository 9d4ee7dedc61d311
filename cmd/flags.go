package cmd

import (
	"time"

	"socialfeed/db"

	"github.com/urfave/cli/v2"
)

func postgresFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-host",
			Usage:   "PostgreSQL host",
			EnvVars: []string{"SOCIALFEED_DB_HOST"},
			Value:   "localhost",
		},
		&cli.IntFlag{
			Name:    "db-port",
			Usage:   "PostgreSQL port",
			EnvVars: []string{"SOCIALFEED_DB_PORT"},
			Value:   5432,
		},
		&cli.StringFlag{
			Name:    "db-user",
			Usage:   "PostgreSQL user",
			EnvVars: []string{"SOCIALFEED_DB_USER"},
			Value:   "socialfeed",
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "PostgreSQL password",
			EnvVars: []string{"SOCIALFEED_DB_PASSWORD"},
			Value:   "socialfeed",
		},
		&cli.StringFlag{
			Name:    "db-name",
			Usage:   "PostgreSQL database name",
			EnvVars: []string{"SOCIALFEED_DB_NAME"},
			Value:   "socialfeed",
		},
		&cli.StringFlag{
			Name:    "db-sslmode",
			Usage:   "PostgreSQL sslmode",
			EnvVars: []string{"SOCIALFEED_DB_SSLMODE"},
			Value:   "disable",
		},
	}
}

func storeFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Document store backend: mongo, postgres or memory",
			EnvVars: []string{"SOCIALFEED_STORE"},
			Value:   "mongo",
		},
		&cli.StringFlag{
			Name:    "mongo-uri",
			Usage:   "MongoDB connection string",
			EnvVars: []string{"SOCIALFEED_MONGO_URI"},
			Value:   "mongodb://localhost:27017",
		},
		&cli.StringFlag{
			Name:    "mongo-database",
			Usage:   "MongoDB database name",
			EnvVars: []string{"SOCIALFEED_MONGO_DATABASE"},
			Value:   "socialfeed",
		},
		&cli.DurationFlag{
			Name:    "connect-timeout",
			Usage:   "How long to keep retrying the first connection to the store",
			EnvVars: []string{"SOCIALFEED_CONNECT_TIMEOUT"},
			Value:   time.Minute,
		},
	}
	return append(flags, postgresFlags()...)
}

func postgresConfig(ctx *cli.Context) db.PostgresConfig {
	return db.PostgresConfig{
		Host:     ctx.String("db-host"),
		Port:     ctx.Int("db-port"),
		User:     ctx.String("db-user"),
		Password: ctx.String("db-password"),
		Name:     ctx.String("db-name"),
		SSLMode:  ctx.String("db-sslmode"),
	}
}

func storeOptions(ctx *cli.Context) db.Options {
	return db.Options{
		Backend:        ctx.String("store"),
		MongoURI:       ctx.String("mongo-uri"),
		MongoDatabase:  ctx.String("mongo-database"),
		Postgres:       postgresConfig(ctx),
		ConnectTimeout: ctx.Duration("connect-timeout"),
	}
}
