package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rsvshop/rsvshop/internal/infrastructure/configs"
	"github.com/rsvshop/rsvshop/internal/infrastructure/json"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/metrics"
	"github.com/rsvshop/rsvshop/internal/infrastructure/ratelimiter"
	adminHandler "github.com/rsvshop/rsvshop/internal/presentation/handler/admin"
	healthHandler "github.com/rsvshop/rsvshop/internal/presentation/handler/health"
	pingHandler "github.com/rsvshop/rsvshop/internal/presentation/handler/ping"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Application struct {
	config        configs.Config
	pingHandler   *pingHandler.Handler
	healthHandler *healthHandler.Handler
	adminHandler  *adminHandler.Handler
	metrics       *metrics.Metrics
	logger        logging.Logger
	// nil when rate limiting is disabled
	ratelimiter ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	pingHandler *pingHandler.Handler,
	healthHandler *healthHandler.Handler,
	adminHandler *adminHandler.Handler,
	metrics *metrics.Metrics,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:        config,
		pingHandler:   pingHandler,
		healthHandler: healthHandler,
		adminHandler:  adminHandler,
		metrics:       metrics,
		logger:        logger,
		ratelimiter:   ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if app.config.HTTP.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(app.requestLogger)
	r.Use(app.metrics.Middleware)
	r.Use(app.recoverer)
	if app.config.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(app.config.HTTP.RequestTimeout))
	}
	r.Use(app.enableCors)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = json.WriteNotFoundError(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.WriteMethodNotAllowedError(w)
	})

	// Probes and metrics are never rate limited.
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", app.pingHandler.GetPing)
		r.Head("/ping", app.pingHandler.HeadPing)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", app.healthHandler.GetHealth)
			r.Get("/live", app.healthHandler.GetHealth)
			r.Get("/ready", app.healthHandler.GetReady)
		})
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	r.Group(func(r chi.Router) {
		if app.ratelimiter != nil {
			r.Use(app.rateLimiterMiddleware)
		}

		r.Get("/loading", app.adminHandler.GetLoading)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/", app.adminHandler.GetDashboard)
			r.Get("/loading", app.adminHandler.GetAdminLoading)
			r.Get("/packages", app.adminHandler.GetPackages)
			r.Get("/reservations", app.adminHandler.GetReservations)
		})
	})

	return otelhttp.NewHandler(r, app.config.App.Name)
}

func (app *Application) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         app.config.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		IdleTimeout:  app.config.HTTP.IdleTimeout,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (app *Application) Run(ctx context.Context, handler http.Handler) error {
	ln, err := net.Listen("tcp", app.config.HTTP.Addr())
	if err != nil {
		return err
	}

	return app.Serve(ctx, ln, handler)
}

// Serve drains readiness, then shuts the server down gracefully once ctx
// is done. It returns after in-flight requests finish or the shutdown
// timeout elapses.
func (app *Application) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := app.newServer(handler)

	shutdown := make(chan error, 1)

	go func() {
		<-ctx.Done()

		app.healthHandler.Drain()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.HTTP.ShutdownTimeout)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "shutting down server", map[logging.ExtraKey]any{
			logging.Address: ln.Addr().String(),
		})

		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		logging.Address:     ln.Addr().String(),
		logging.Version:     app.config.App.Version,
		logging.Environment: app.config.App.Environment,
	})

	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		logging.Address: ln.Addr().String(),
	})

	return nil
}
