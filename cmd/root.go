package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "blogg",
		Usage: "A tiny blog server",
		Description: `A minimal blog backed by a single SQLite table.

		Visitors get a reverse-chronological list of posts, and authors
		create, edit and delete posts through plain web forms.

		Flags can generally be set via environment variables, e.g.:

		--database => BLOGG_DATABASE=blog.db
		--port => BLOGG_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			postCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
