package main

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/timetrack/internal/api"
	"github.com/limbo/timetrack/internal/guard"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/cleanup"
	"github.com/limbo/timetrack/pkg/config"
	jwtservice "github.com/limbo/timetrack/pkg/jwt_service"
	"github.com/limbo/timetrack/pkg/logger"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			logger.Setup(logger.Config{
				Level:  cfg.GetStringOr("LOG_LEVEL", "INFO"),
				Format: cfg.GetStringOr("LOG_FORMAT", "json"),
			})
			if address == "" {
				address = cfg.GetStringOr("API_ADDRESS", ":8080")
			}
			secret := cfg.GetString("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer cleanup.CleanUp()

			pool, err := repository.NewPool(ctx, dbConfig(cfg))
			if err != nil {
				return err
			}
			g, err := guard.New()
			if err != nil {
				return err
			}
			usersRepo := repository.NewUsersRepo(pool)
			projectsRepo := repository.NewProjectsRepo(pool)
			tasksRepo := repository.NewTasksRepo(pool)
			entriesRepo := repository.NewEntriesRepo(pool)

			serv := api.New(&api.ServicesList{
				UserService:        service.NewUserService(usersRepo),
				ProjectsService:    service.NewProjectsService(projectsRepo, g),
				TasksService:       service.NewTasksService(tasksRepo, projectsRepo, g),
				TimerService:       service.NewTimerService(tasksRepo, entriesRepo, g),
				EntriesService:     service.NewEntriesService(entriesRepo, tasksRepo, projectsRepo, g),
				JwtService:         jwtservice.New(secret, cfg.GetDuration("JWT_TTL", 24*time.Hour)),
				RegisterRatePerMin: cfg.GetInt("REGISTER_RATE_PER_MIN", 10),
			})
			if err := serv.Run(ctx, address); err != nil {
				slog.Error("server error", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address, API_ADDRESS by default")
	return cmd
}
