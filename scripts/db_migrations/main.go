package main

import (
	"database/sql"
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	server_config "github.com/carson-networks/allowance-server/internal/config"
	"github.com/carson-networks/allowance-server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "db_migrations",
		Usage: "apply or roll back the allowance-server schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply every pending migration",
				Action: withMigrator(up),
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: withMigrator(down),
			},
			{
				Name:   "version",
				Usage:  "print the current schema version",
				Action: withMigrator(version),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("db_migrations")
	}
}

// withMigrator opens the configured database and hands a migrator to action.
func withMigrator(action func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		env, err := server_config.ProcessEnvironmentVariables()
		if err != nil {
			return err
		}

		db, err := sql.Open("postgres", storage.ConnectionString(env))
		if err != nil {
			return err
		}

		m, err := storage.NewMigrator(db)
		if err != nil {
			_ = db.Close()
			return err
		}
		defer m.Close()

		return action(c, m)
	}
}

func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func up(_ *cli.Context, m *migrate.Migrate) error {
	preMigrationVersion, _, err := currentVersion(m)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	postMigrationVersion, _, err := currentVersion(m)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
	return nil
}

func down(c *cli.Context, m *migrate.Migrate) error {
	steps := c.Int("steps")
	if steps < 1 {
		return errors.New("steps must be at least 1")
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	v, _, err := currentVersion(m)
	if err != nil {
		return err
	}
	logrus.WithField("version", v).Info("Rolled back")
	return nil
}

func version(_ *cli.Context, m *migrate.Migrate) error {
	v, dirty, err := currentVersion(m)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"version": v,
		"dirty":   dirty,
	}).Info("Migration version")
	return nil
}
