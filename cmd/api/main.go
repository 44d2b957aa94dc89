// Package main is the entrypoint for the Spendwise API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/handler"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/server"
	"github.com/spendwise/spendwise/internal/service"
	"github.com/spendwise/spendwise/internal/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Apply pending schema migrations before opening the pool.
	if err := repository.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("database schema up to date")

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	sessions, err := session.NewManager(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer sessions.Close()
	logger.Info("connected to session store")

	// Services
	recorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, sessions, recorder)
	expenseService := service.NewExpenseService(repo, recorder)

	// Handlers
	h := handler.New()
	cookieCfg := handler.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.SecureCookie,
		TTL:    cfg.SessionTTL,
	}
	healthHandler := handler.NewHealthHandler(repo, sessions, logger)
	authHandler := handler.NewAuthHandler(accountService, logger, cookieCfg)
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)
	categoryHandler := handler.NewCategoryHandler(repo, logger)
	userHandler := handler.NewUserHandler(repo, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)
	pageHandler := handler.NewPageHandler(cfg.PublicDir, cfg.SessionCookie, sessions)

	r := setupRouter(routerDeps{
		base:       h,
		health:     healthHandler,
		auth:       authHandler,
		expenses:   expenseHandler,
		categories: categoryHandler,
		users:      userHandler,
		metrics:    metricsHandler,
		pages:      pageHandler,
		sessions:   sessions,
		cfg:        cfg,
		logger:     logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("session store", func(ctx context.Context) error {
		return sessions.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base       *handler.Handler
	health     *handler.HealthHandler
	auth       *handler.AuthHandler
	expenses   *handler.ExpenseHandler
	categories *handler.CategoryHandler
	users      *handler.UserHandler
	metrics    *handler.MetricsHandler
	pages      *handler.PageHandler
	sessions   *session.Manager
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      d.cfg.IsDevelopment(),
		MaxRequestBodySize: d.cfg.MaxRequestBodySize,
	}))

	// Probes and metrics
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	// Static pages
	r.Get("/", d.pages.Home)
	r.Get("/login", d.pages.Login)
	r.Get("/register", d.pages.Register)
	r.Get("/dashboard", d.pages.Dashboard)

	authCfg := middleware.AuthConfig{
		Logger:     d.logger,
		Sessions:   d.sessions,
		CookieName: d.cfg.SessionCookie,
	}
	loginLimit := middleware.LoginRateLimit(middleware.LoginRateLimitConfig{
		Logger:        d.logger,
		Limiter:       d.sessions,
		Enabled:       d.cfg.LoginRateLimitEnabled,
		RatePerMinute: d.cfg.LoginRatePerMinute,
		Burst:         d.cfg.LoginRateBurst,
	})

	r.Route("/api", func(r chi.Router) {
		// Public: account entry points and reference data
		r.Post("/register", d.auth.Register)
		r.With(loginLimit).Post("/login", d.auth.Login)
		r.Get("/categories", d.categories.List)

		// Session-gated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/logout", d.auth.Logout)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", d.expenses.List)
				r.Post("/", d.expenses.Create)
				r.Get("/{id}", d.expenses.Get)
				r.Put("/{id}", d.expenses.Update)
				r.Delete("/{id}", d.expenses.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", d.users.List)
				r.Get("/{id}", d.users.Get)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
