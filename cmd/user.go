package cmd

import (
	"errors"
	"fmt"

	"socialfeed/db"
	"socialfeed/models"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func userCmd() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage the user directory",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add or replace a user in the directory",
				Description: `Writes a user record so that feeds and comments posted with
its id show the user's name and profile image.

Asks for the username and profile image when they are not passed as flags.`,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "User id referenced by feeds and comments",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "username",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "profile-image",
						Usage: "Avatar URL",
					},
				}, storeFlags()...),
				Action: func(ctx *cli.Context) error {
					username := ctx.String("username")
					if username == "" {
						var err error
						username, err = prompt.New().Ask("Username:").Input("")
						if err != nil {
							return err
						}
					}
					if username == "" {
						return errors.New("a username is required")
					}

					profileImage := ctx.String("profile-image")
					if !ctx.IsSet("profile-image") {
						var err error
						profileImage, err = prompt.New().Ask("Profile image URL:").Input("https://")
						if err != nil {
							return err
						}
					}

					store, err := db.Open(ctx.Context, storeOptions(ctx))
					if err != nil {
						return err
					}
					defer store.Close()

					user := models.User{
						UserId:       ctx.String("id"),
						Username:     username,
						ProfileImage: profileImage,
					}
					if err := store.PutUser(ctx.Context, user); err != nil {
						return fmt.Errorf("could not save user: %w", err)
					}

					fmt.Println("Saved user", user.UserId, user.Username)
					return nil
				},
			},
		},
	}
}
