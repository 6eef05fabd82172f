package main

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/limbo/timetrack/pkg/config"
	"github.com/pressly/goose"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if dir == "" {
				dir = cfg.GetStringOr("MIGRATIONS_DIR", "./migrations")
			}
			connStr := fmt.Sprintf("%s?sslmode=%s", dbConfig(cfg).ConnString(), cfg.GetStringOr("POSTGRES_SSLMODE", "disable"))
			db, err := sql.Open("postgres", connStr)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			switch args[0] {
			case "up":
				return goose.Up(db, dir)
			case "down":
				return goose.Down(db, dir)
			case "status":
				return goose.Status(db, dir)
			}
			return errors.New("unknown migrate command " + args[0])
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory, MIGRATIONS_DIR by default")
	return cmd
}
