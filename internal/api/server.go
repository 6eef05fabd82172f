package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/limbo/timetrack/internal/metrics"
	"github.com/limbo/timetrack/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/limbo/timetrack/docs"
)

const (
	defaultRegisterRatePerMin = 10
	shutdownTimeout           = 10 * time.Second
)

type Server struct {
	mx              *chi.Mux
	userService     service.UserServiceI
	projectsService service.ProjectsServiceI
	tasksService    service.TasksServiceI
	timerService    service.TimerServiceI
	entriesService  service.EntriesServiceI
	jwtService      JWTServiceI
	registerLimiter *ipRateLimiter
}

type ServicesList struct {
	UserService     service.UserServiceI
	ProjectsService service.ProjectsServiceI
	TasksService    service.TasksServiceI
	TimerService    service.TimerServiceI
	EntriesService  service.EntriesServiceI
	JwtService      JWTServiceI
	// Registrations allowed per client IP per minute, 10 if unset
	RegisterRatePerMin int
}

func New(servicesOptions *ServicesList) *Server {
	perMin := servicesOptions.RegisterRatePerMin
	if perMin <= 0 {
		perMin = defaultRegisterRatePerMin
	}
	s := &Server{
		mx:              chi.NewMux(),
		userService:     servicesOptions.UserService,
		projectsService: servicesOptions.ProjectsService,
		tasksService:    servicesOptions.TasksService,
		timerService:    servicesOptions.TimerService,
		entriesService:  servicesOptions.EntriesService,
		jwtService:      servicesOptions.JwtService,
		registerLimiter: newIPRateLimiter(perMin, perMin),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(metrics.Middleware)

	s.mx.Get("/healthz", s.Health)
	s.mx.Handle("/metrics", promhttp.Handler())
	s.mx.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.With(s.RateLimitMiddleware).Post("/register/", s.Register)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.ListProjects)
				r.Post("/", s.CreateProject)
				r.Get("/{id}/", s.GetProject)
				r.Put("/{id}/", s.UpdateProject)
				r.Delete("/{id}/", s.DeleteProject)
			})
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.ListTasks)
				r.Post("/", s.CreateTask)
				r.Get("/{id}/", s.GetTask)
				r.Put("/{id}/", s.UpdateTask)
				r.Delete("/{id}/", s.DeleteTask)
				r.Post("/{id}/start/", s.StartTimer)
				r.Post("/{id}/end/", s.StopTimer)
			})
			r.Route("/entries", func(r chi.Router) {
				r.Get("/", s.ListEntries)
				r.Post("/", s.CreateEntry)
				r.Get("/active/", s.ActiveEntry)
				r.Get("/{id}/", s.GetEntry)
				r.Delete("/{id}/", s.DeleteEntry)
			})
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           otelhttp.NewHandler(s.mx, "timetrack"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("address", address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
