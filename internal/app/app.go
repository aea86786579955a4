package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/config"
	apierrors "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/errors"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
	custommw "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/middleware"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
	handlers "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/transport/http"
	ws "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/websocket"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/pkg/contracts"
)

// AppName is shown in logs and the version endpoint
const AppName = "Bitcoin Price Dashboard"

// Application is the dashboard service container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.BusinessMetrics
	Sessions         *session.Store
	Sweeper          *session.Sweeper
	WebSocketHub     *ws.Hub
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	FrontendFS       fs.FS

	errorHandler *apierrors.ErrorHandler
	validator    *custommw.Validator
}

// NewApplication loads the configuration, initializes the process logger
// and builds the application
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("build", contracts.Build().String()))

	return NewApplicationWithConfig(cfg, frontendFS, logger)
}

// NewApplicationWithConfig builds the application from an explicit config
// and logger
func NewApplicationWithConfig(cfg *config.Config, frontendFS fs.FS, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	providers, err := infrastructure.InitializeOTel(
		infrastructure.NewOTelConfig(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		FrontendFS:    frontendFS,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		validator:     custommw.NewValidator(logger),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) initializeServices() error {
	a.Sessions = session.NewStore(a.Config.Session.TTL)
	a.WebSocketHub = ws.NewHub(a.Metrics, a.Logger)

	a.DashboardService = services.NewDashboardService(
		a.Config.Dashboard, a.Sessions, a.WebSocketHub, a.Metrics, a.Logger)

	a.HealthService = services.NewHealthService(
		contracts.Version, contracts.BuildTime, a.Sessions, a.WebSocketHub, a.Logger)

	sweeper, err := session.NewSweeper(a.Sessions, a.Config.Session.SweepSchedule, a.Logger, a.sessionExpired)
	if err != nil {
		return fmt.Errorf("failed to create session sweeper: %w", err)
	}
	a.Sweeper = sweeper
	return nil
}

// sessionExpired tells the pages of an expired session that its tables are gone
func (a *Application) sessionExpired(id string) {
	a.Metrics.RecordSessionChange(context.Background(), -1)
	a.WebSocketHub.PublishToSession(id, services.EventSessionEnded, nil)
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StripSlashes)

	sessions := custommw.Sessions(a.Sessions, custommw.SessionConfig{
		CookieName: a.Config.Session.CookieName,
		Secure:     a.Config.Session.SecureCookie,
		Logger:     a.Logger,
		Metrics:    a.Metrics,
	})

	// The upgrade hijacks the connection, so /ws skips the timeout and
	// body limit of the API group.
	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger, a.errorHandler)
	r.With(sessions, custommw.WebSocketTraceMiddleware(a.Logger)).Get("/ws", wsHandler.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(custommw.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
		r.Use(custommw.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins:   a.Config.Security.AllowedOrigins,
				AllowCredentials: true,
				Logger:           a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.errorHandler,
			).Handler)
		}

		a.setupAPIRoutes(r, sessions)

		if a.FrontendFS != nil {
			r.With(sessions).Get("/", handlers.ServeDashboard(a.FrontendFS, a.Logger))
		}
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// Registered last so chi copies them into the mounted subrouters.
	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router, sessions func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.errorHandler))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/metrics", handlers.NewMetricsHandler(a.HealthService, a.WebSocketHub).Routes())

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.validator, a.Logger, a.errorHandler)
		r.Get("/views", dashboardHandler.ListViews)

		r.Group(func(r chi.Router) {
			r.Use(custommw.BodyLimit(a.Config.Server.MaxUploadBytes))
			r.Use(sessions)
			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Start binds the listener and serves in the background. A serve failure
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, cancel, ln)
}

// Serve starts the background services and serves on ln
func (a *Application) Serve(ctx context.Context, cancel context.CancelFunc, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	a.WebSocketHub.Start()
	a.Sweeper.Start()

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("url", "http://"+ln.Addr().String()))
	return nil
}

// Stop drains the server then stops the background services
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	a.Sweeper.Stop()
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Int("sessions", a.Sessions.Len()))
	return errors.Join(errs...)
}

// Run serves until SIGINT, SIGTERM or a server failure
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
