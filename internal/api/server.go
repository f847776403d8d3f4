package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/limbo/goaltrackr/internal/service"
	"github.com/limbo/goaltrackr/pkg/metrics"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	mx               *chi.Mux
	userService      service.UserServiceI
	goalsService     service.GoalsServiceI
	tasksService     service.TasksServiceI
	journalsService  service.JournalsServiceI
	dashboardService service.DashboardServiceI
	jwtService       JWTServiceI
	authLimiter      *RateLimiter
	healthCheck      func(ctx context.Context) error
	trustProxy       bool
}

type ServicesList struct {
	UserService      service.UserServiceI
	GoalsService     service.GoalsServiceI
	TasksService     service.TasksServiceI
	JournalsService  service.JournalsServiceI
	DashboardService service.DashboardServiceI
	JwtService       JWTServiceI
	// Pings the store for /healthz, nil reports healthy
	HealthCheck func(ctx context.Context) error
	// Login and register requests per second per client, 0 disables limiting
	AuthRateLimit float64
	AuthRateBurst int

	// Take the client address from X-Forwarded-For and X-Real-IP. Enable only
	// behind a proxy that overwrites them, otherwise clients pick their own
	// rate limit key.
	TrustProxyHeaders bool
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:               chi.NewMux(),
		userService:      servicesOptions.UserService,
		goalsService:     servicesOptions.GoalsService,
		tasksService:     servicesOptions.TasksService,
		journalsService:  servicesOptions.JournalsService,
		dashboardService: servicesOptions.DashboardService,
		jwtService:       servicesOptions.JwtService,
		healthCheck:      servicesOptions.HealthCheck,
		trustProxy:       servicesOptions.TrustProxyHeaders,
	}
	if servicesOptions.AuthRateLimit > 0 {
		s.authLimiter = NewRateLimiter(servicesOptions.AuthRateLimit, servicesOptions.AuthRateBurst)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if s.trustProxy {
		s.mx.Use(middleware.RealIP)
	}
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(s.RecoverMiddleware)
	s.mx.Use(metrics.InstrumentHandler)

	s.mx.Get("/healthz", s.Health)
	s.mx.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.authLimiter != nil {
				r.Use(s.authLimiter.Handler)
			}
			r.Post("/auth/register", s.Register)
			r.Post("/auth/login", s.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Get("/user/settings", s.GetSettings)
			r.Put("/user/settings", s.UpdateSettings)

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", s.ListGoals)
				r.Post("/", s.CreateGoal)
				r.Get("/{id}", s.GetGoal)
				r.Put("/{id}", s.UpdateGoal)
				r.Delete("/{id}", s.DeleteGoal)
			})
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.ListTasks)
				r.Post("/", s.CreateTask)
				r.Get("/{id}", s.GetTask)
				r.Put("/{id}", s.UpdateTask)
				r.Delete("/{id}", s.DeleteTask)
				r.Patch("/{id}/complete", s.CompleteTask)
			})
			r.Route("/journals", func(r chi.Router) {
				r.Get("/", s.ListJournals)
				r.Post("/", s.CreateJournal)
				r.Get("/{id}", s.GetJournal)
				r.Put("/{id}", s.UpdateJournal)
				r.Delete("/{id}", s.DeleteJournal)
			})
			r.Get("/dashboard/summary", s.DashboardSummary)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server started", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
