package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/event-planner/backend/internal/ai"
	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/config"
	"example.com/event-planner/backend/internal/handlers"
	"example.com/event-planner/backend/internal/metrics"
	"example.com/event-planner/backend/internal/notifications"
	"example.com/event-planner/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if m != nil {
		e.Use(m.Middleware())
	}

	aiClient, err := newAIClient(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	aiService := ai.NewService(aiClient, cfg.AI.Provider, cfg.AI.Model)
	if !aiService.Enabled() {
		logger.Warn("ai api key is not configured, fallback plans will be returned", slog.String("provider", cfg.AI.Provider))
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	eventRepo := repository.NewEventRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	aiRepo := repository.NewAIRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	notificationHub := notifications.NewHub()
	if m != nil {
		notificationHub.OnDrop(m.DroppedEvent)
		m.RegisterGauge("sse_subscribers", "Open notification streams.", func() float64 {
			return float64(notificationHub.Subscribers())
		})
		m.RegisterGauge("db_pool_acquired_connections", "Connections currently checked out of the pool.", func() float64 {
			return float64(db.Stat().AcquiredConns())
		})
	}

	defaults := handlers.EventDefaults{
		Location: cfg.Planner.DefaultLocation,
		Currency: cfg.Planner.DefaultCurrency,
	}

	h := routeHandlers{
		auth:          handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager),
		profile:       handlers.NewProfileHandler(userRepo, tokenRepo),
		events:        handlers.NewEventHandler(eventRepo, notificationHub, defaults),
		plans:         handlers.NewPlanHandler(aiService, eventRepo, aiRepo, notificationHub, m, cfg.Planner.DefaultLanguage),
		catalog:       handlers.NewCatalogHandler(catalogRepo),
		stats:         handlers.NewStatsHandler(statsRepo),
		notifications: handlers.NewNotificationHandler(notificationHub),
		admin:         handlers.NewAdminHandler(adminRepo),
		health:        handlers.NewHealthHandler(db, aiService.Enabled()),
	}

	registerRoutes(e, h, routeMiddleware{
		auth:     auth.JWTMiddleware(tokenManager),
		admin:    handlers.AdminMiddleware(userRepo, cfg.Admin.Emails),
		authRate: authRateLimiter(cfg.Auth),
		aiRate:   aiRateLimiter(cfg.AI),
	})

	if m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}

	return e, nil
}

// newAIClient выбирает клиента провайдера. Без ключа возвращает nil, и сервис отдает план-заглушку.
func newAIClient(ctx context.Context, cfg config.AIConfig) (ai.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini:
		client, err := ai.NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client, nil
	case config.ProviderGroq:
		return ai.NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	return rateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	return rateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
}

func rateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60.0),
		Burst:     burst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
