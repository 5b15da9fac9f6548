package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/personaworks/report-gateway/internal/chain"
	"github.com/personaworks/report-gateway/internal/config"
	"github.com/personaworks/report-gateway/internal/httpapi"
	"github.com/personaworks/report-gateway/internal/provider"
	"github.com/personaworks/report-gateway/internal/ratelimit"
	"github.com/personaworks/report-gateway/internal/report"
	"github.com/personaworks/report-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()
	setLogLevel(logLevel, cfg.Telemetry.LogLevel)

	// Redis backs rate limiting only; the service runs without it.
	var rdb *redis.Client
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting fails open)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	// Provider adapters rebuild on config reload; the chain reads them
	// through the getter so in-flight traversals keep their snapshot.
	var adaptersMu sync.RWMutex
	adapters := provider.BuildFromConfig(loader.Providers())
	getAdapters := func() map[string]provider.Adapter {
		adaptersMu.RLock()
		defer adaptersMu.RUnlock()
		return adapters
	}
	loader.OnReload(func() {
		rebuilt := provider.BuildFromConfig(loader.Providers())
		adaptersMu.Lock()
		adapters = rebuilt
		adaptersMu.Unlock()
		setLogLevel(logLevel, loader.Config().Telemetry.LogLevel)
		logger.Info("provider adapters reloaded", "providers", len(rebuilt))
	})

	metrics := telemetry.NewMetrics()
	coordinator := chain.New(
		func() config.ChainConfig { return loader.Config().Chain },
		getAdapters,
		chain.NewStats(),
		metrics,
	)
	handler := httpapi.NewHandler(coordinator, report.NewCache(), metrics)
	limiter := ratelimit.NewLimiter(rdb)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware(cfg.CORS, logger))

	handler.Routes(r, ratelimit.Middleware(limiter,
		func() config.RateLimitConfig { return loader.Config().RateLimit },
		metrics,
	))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort),
		Handler: metricsMux(),
	}
	go func() {
		logger.Info("metrics server starting", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server error", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("report gateway starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	metricsSrv.Shutdown(ctx)
	logger.Info("report gateway stopped")
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func setLogLevel(v *slog.LevelVar, level string) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}

// corsMiddleware allows origins matching any configured pattern. The web
// client moves between preview deployments, so the allow-list is a set of
// regular expressions rather than fixed hosts.
func corsMiddleware(cfg config.CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	var patterns []*regexp.Regexp
	for _, p := range cfg.AllowedOriginPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Warn("invalid CORS origin pattern, skipping", "pattern", p, "error", err)
			continue
		}
		patterns = append(patterns, re)
	}
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			for _, re := range patterns {
				if re.MatchString(origin) {
					return true
				}
			}
			return false
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func generateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
