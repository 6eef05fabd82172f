// @title Timetrack API
// @version 1.0
// @description Multi-tenant time tracking: projects, tasks, manual entries and a start/stop timer.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/config"
	"github.com/spf13/cobra"
)

func init() {
	service.InitValidator()
}

var rootCmd = &cobra.Command{
	Use:          "timetrack",
	Short:        "Time tracking API server",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd(), migrateCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dbConfig(cfg *config.Config) *repository.PGCfg {
	return &repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
}
