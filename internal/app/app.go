package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"attendancify/internal/config"
	apperrors "attendancify/internal/errors"
	"attendancify/internal/files"
	"attendancify/internal/infrastructure"
	customMiddleware "attendancify/internal/middleware"
	"attendancify/internal/services"
	handlers "attendancify/internal/transport/http"
	"attendancify/pkg/contracts"
	"attendancify/pkg/contracts/domain"
)

// Application represents the HTTP service container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.AppMetrics
	Files         *files.Manager
	Services      *ServiceContainer

	listener net.Listener
	done     chan struct{}
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Reconcile *services.ReconcileService
	Health    *services.HealthService
}

// NewApplication wires the service from an already loaded configuration.
// Directories are created and telemetry is initialized; nothing listens
// until Start.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewAppMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Files:         files.NewManager(paths, logger),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	opts := services.OptionsFromConfig(a.Config.Reconcile)
	opts.Tracer = a.OTelProviders.Tracer
	opts.Metrics = a.Metrics
	opts.Logger = a.Logger

	a.Services = &ServiceContainer{
		Reconcile: services.NewReconcileService(opts),
		Health: services.NewHealthService(contracts.Version, contracts.BuildTime, map[string]string{
			"uploads": a.Paths.UploadsDir,
			"outputs": a.Paths.OutputDir,
		}, a.Logger),
	}
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	// RequestID → RealIP → OTel → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	attendanceHandler := handlers.NewAttendanceHandler(
		a.Services.Reconcile,
		a.Files,
		domain.OutputFormat(a.Config.Reconcile.OutputFormat),
		a.Logger,
		errorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		healthHandler.Register(r)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.Logger,
				).Handler)
			}
			r.Use(customMiddleware.MaxBodySize(a.Config.Security.MaxUploadBytes))
			r.Use(customMiddleware.Timeout(a.Config.Server.OperationTimeout))
			r.Mount("/", attendanceHandler.Routes())
		})
	})

	// Metrics sit outside the API group so scrapes are never rate limited
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Addr returns the address the server listens on once started
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Start binds the listener and serves in the background. A serve failure
// calls cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.done = make(chan struct{})

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go a.sweepWorkspaces(ctx)

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", ln.Addr().String()),
		slog.Int("match_threshold", a.Config.Reconcile.Threshold),
		slog.String("default_format", a.Config.Reconcile.OutputFormat))
	return nil
}

// sweepWorkspaces removes request workspaces left behind by interrupted
// requests until ctx is done or Stop is called.
func (a *Application) sweepWorkspaces(ctx context.Context) {
	ticker := time.NewTicker(config.WorkspaceSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case <-ticker.C:
			if _, err := a.Files.CleanupOlderThan(config.WorkspaceRetention); err != nil {
				a.Logger.WarnContext(ctx, "Workspace sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.done != nil {
		close(a.done)
		a.done = nil
	}

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until ctx is cancelled or an interrupt arrives
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
