package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gov-dx-sandbox/home-inventory/shared/audit"
	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/shared/redis"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	v1 "github.com/gov-dx-sandbox/home-inventory/v1"
	v1auth "github.com/gov-dx-sandbox/home-inventory/v1/auth"
	v1handlers "github.com/gov-dx-sandbox/home-inventory/v1/handlers"
	v1middleware "github.com/gov-dx-sandbox/home-inventory/v1/middleware"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// waitingAuditor is an auditor that can drain in-flight deliveries on shutdown
type waitingAuditor interface {
	audit.Auditor
	Wait()
}

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting Home Inventory initialization")

	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to GORM database", "error", err)
		os.Exit(1)
	}
	if err := gormDB.Use(monitoring.GormPlugin{}); err != nil {
		slog.Warn("Failed to register database metrics plugin", "error", err)
	}

	auditor, redisClient := newAuditor()
	_ = audit.NewAuditMiddleware(auditor)

	sessions, err := v1auth.NewSessionManager(
		os.Getenv("SESSION_SECRET"),
		utils.GetEnvDurationOrDefault("SESSION_TTL", 30*24*time.Hour),
		utils.GetEnvBoolOrDefault("COOKIE_SECURE", true),
	)
	if err != nil {
		slog.Error("Invalid session configuration", "error", err)
		os.Exit(1)
	}

	oauthConfig := v1auth.NewOAuthConfigFromEnv()
	if err := oauthConfig.Validate(); err != nil {
		slog.Error("Invalid OAuth configuration", "error", err)
		os.Exit(1)
	}

	v1Handler := v1handlers.NewV1Handler(gormDB)
	oauthHandler := v1auth.NewOAuthHandler(oauthConfig, sessions, v1Handler.UserService())
	sessionAuth := v1middleware.NewSessionAuthMiddleware(sessions, v1Handler.UserService())
	authLimiter := v1middleware.NewRateLimiter(utils.GetEnvIntOrDefault("AUTH_RATE_LIMIT", 20), time.Minute)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(utils.PanicRecoveryMiddleware)
	r.Use(monitoring.TraceIDMiddleware)
	r.Use(monitoring.HTTPMetricsMiddleware)
	r.Use(v1middleware.SecurityHeadersMiddleware)
	r.Use(v1middleware.CORSMiddleware(
		utils.GetEnvOrDefault("CORS_ALLOWED_ORIGIN", ""),
		utils.GetEnvIntOrDefault("CORS_MAX_AGE", 86400),
	))
	r.Use(v1middleware.LocaleMiddleware)

	r.NotFound(v1handlers.NotFound)
	r.MethodNotAllowed(v1handlers.MethodNotAllowed)

	r.Get("/health", healthHandler(gormDB, dbConfig, redisClient))
	r.Handle("/metrics", monitoring.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Get("/login", oauthHandler.Login)
		r.Get("/callback", oauthHandler.Callback)
		r.Post("/logout", oauthHandler.Logout)
	})

	r.Get("/language", v1handlers.GetLanguage)
	r.Post("/language", v1handlers.SetLanguage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessionAuth.Authenticate)
		v1Handler.SetupV1Routes(r)
	})

	port := utils.GetEnvOrDefault("PORT", "3000")
	addr := ":" + port
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Home Inventory starting", "port", port, "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start Home Inventory", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down Home Inventory...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if w, ok := auditor.(waitingAuditor); ok {
		w.Wait()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis connection", "error", err)
		}
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}

	slog.Info("Home Inventory exited")
}

// newAuditor publishes audit events to a Redis stream when REDIS_ADDR is set,
// and to the HTTP audit service otherwise
func newAuditor() (audit.Auditor, *redis.RedisClient) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client, err := redis.NewClient(&redis.Config{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       utils.GetEnvIntOrDefault("REDIS_DB", 0),
		})
		if err == nil {
			slog.Info("Audit events routed to Redis stream", "addr", addr)
			return redis.NewStreamAuditor(client, os.Getenv("AUDIT_STREAM")), client
		}
		slog.Warn("Redis unavailable, falling back to the HTTP audit service", "error", err)
	}
	return audit.NewClient(os.Getenv("AUDIT_SERVICE_URL")), nil
}

type dependencyHealth struct {
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	Database     string `json:"database,omitempty"`
	StreamLength *int64 `json:"streamLength,omitempty"`
}

type healthStatus struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Dependencies map[string]dependencyHealth `json:"dependencies"`
}

func healthHandler(gormDB *gorm.DB, dbConfig *v1.DatabaseConfig, redisClient *redis.RedisClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := healthStatus{
			Status:       "healthy",
			Service:      "home-inventory",
			Dependencies: map[string]dependencyHealth{},
		}

		sqlDB, err := gormDB.DB()
		switch {
		case err != nil:
			status.Dependencies["database"] = dependencyHealth{Status: "unhealthy", Error: fmt.Sprintf("failed to get sql.DB: %v", err)}
			status.Status = "unhealthy"
		case sqlDB.PingContext(ctx) != nil:
			status.Dependencies["database"] = dependencyHealth{Status: "unhealthy", Error: "ping failed"}
			status.Status = "unhealthy"
		default:
			status.Dependencies["database"] = dependencyHealth{Status: "healthy", Database: dbConfig.Database}
		}

		if redisClient != nil {
			if err := redisClient.HealthCheck(ctx); err != nil {
				// Redis only carries audit events and does not affect overall status
				status.Dependencies["redis"] = dependencyHealth{Status: "unhealthy", Error: err.Error()}
			} else {
				dep := dependencyHealth{Status: "healthy"}
				stream := utils.GetEnvOrDefault("AUDIT_STREAM", redis.DefaultAuditStream)
				if length, err := redisClient.GetStreamLength(ctx, stream); err == nil {
					dep.StreamLength = &length
				}
				status.Dependencies["redis"] = dep
			}
		}

		statusCode := http.StatusOK
		if status.Status != "healthy" {
			statusCode = http.StatusServiceUnavailable
		}
		utils.RespondWithJSON(w, statusCode, status)
	}
}
