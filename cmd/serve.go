package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"blogg/config"
	"blogg/db"
	"blogg/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the blog",
		Description: `Starts the blog HTTP server.

Runs the database migrations before accepting requests, so a fresh
database file is usable straight away. Shuts down gracefully on SIGINT.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"PORT", "BLOGG_PORT"},
			},
			databaseFlag(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "blogg.toml",
				Usage:   "Path to the site configuration file",
				EnvVars: []string{"BLOGG_CONFIG"},
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			port := ctx.Int("port")

			// Ensure the schema exists before the listener starts
			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("migration error: %w", err)
			}

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}

			posts, err := db.NewDB(database)
			if err != nil {
				return err
			}
			defer posts.Close()

			app := server.Server(&server.ServerConfig{
				DB:   posts,
				Site: cfg.Site,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			done := make(chan struct{})

			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
					log.Error("Error shutting down server ", err)
				}
				close(done)
			}()

			log.WithFields(log.Fields{
				"port":     port,
				"database": database,
			}).Info("Starting server")

			if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
				return err
			}

			<-done
			fmt.Println("Done!")
			return nil
		},
	}
}
