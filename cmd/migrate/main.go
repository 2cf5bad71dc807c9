package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"gstbill/internal/config"
	"gstbill/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)

	var m *migrate.Migrate
	app := &cli.App{
		Name:  "migrate",
		Usage: "apply or revert gstbill schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: "file://db/migrations", Usage: "migration source URL"},
		},
		Before: func(c *cli.Context) error {
			m, err = migrate.New(c.String("source"), cfg.DB.DSN())
			if err != nil {
				return fmt.Errorf("create migrate instance: %w", err)
			}
			return nil
		},
		After: func(*cli.Context) error {
			if m != nil {
				srcErr, dbErr := m.Close()
				return errors.Join(srcErr, dbErr)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(*cli.Context) error {
					return apply(log, "up", m.Up())
				},
			},
			{
				Name:  "down",
				Usage: "revert all migrations",
				Action: func(*cli.Context) error {
					return apply(log, "down", m.Down())
				},
			},
			{
				Name:      "steps",
				Usage:     "apply N migrations (negative reverts)",
				ArgsUsage: "N (put -- before a negative N)",
				Action: func(c *cli.Context) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("steps requires an integer argument: %w", err)
					}
					return apply(log.WithField("steps", n), "steps", m.Steps(n))
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(*cli.Context) error {
					version, dirty, err := m.Version()
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Printf("version: %d, dirty: %v\n", version, dirty)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}
}

func apply(log logrus.FieldLogger, op string, err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s: %w", op, err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.WithField("op", op).Info("no migrations to apply")
		return nil
	}
	log.WithField("op", op).Info("migrations applied")
	return nil
}
