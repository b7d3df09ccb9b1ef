package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/novadev/novaauto-scraper/internal/api"
	"github.com/novadev/novaauto-scraper/internal/cache"
	"github.com/novadev/novaauto-scraper/internal/config"
	"github.com/novadev/novaauto-scraper/internal/fetcher"
	"github.com/novadev/novaauto-scraper/internal/parser"
	"github.com/novadev/novaauto-scraper/internal/ratelimit"
	"github.com/novadev/novaauto-scraper/internal/scraper"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.NewFixedDelayLimiter(cfg.Scraper.DelayMin, cfg.Scraper.DelayMax)

	f := fetcher.New(fetcher.Options{
		Timeout:    cfg.Scraper.Timeout,
		MaxRetries: cfg.Scraper.MaxRetries,
		UserAgents: cfg.Scraper.UserAgents,
		Referer:    cfg.Scraper.BaseURL,
	}, limiter, logger)

	p, err := parser.NewListingParser(cfg.Scraper.BaseURL, logger)
	if err != nil {
		logger.Error("failed to initialize parser", "error", err)
		os.Exit(1)
	}

	collector := scraper.NewCollector(f, p, cfg.Scraper.BaseURL, logger)

	var responseCache *cache.Cache
	if cfg.Cache.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, response cache disabled", "error", err)
		} else {
			responseCache = cache.New(redisClient, cfg.Cache.TTL, logger)
		}
	}

	handlers := api.NewHandlers(collector, responseCache, cfg.Scraper.BaseURL, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(handlers.Recover)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)
	r.Get("/scrape", handlers.ScrapeVehicles)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr, "base_url", cfg.Scraper.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
