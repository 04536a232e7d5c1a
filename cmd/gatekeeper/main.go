package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"gatekeeper/internal/config"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/cachemem"
	"gatekeeper/internal/infra/cacheredis"
	"gatekeeper/internal/infra/db"
	httpinfra "gatekeeper/internal/infra/http"
	"gatekeeper/internal/infra/metrics"
	"gatekeeper/internal/infra/ratelimit"
	"gatekeeper/internal/infra/token"
	"gatekeeper/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.PostgresDSN == "" {
		slog.Error("GATEKEEPER_POSTGRES_DSN is required")
		os.Exit(1)
	}

	gdb, err := db.Open(cfg.PostgresDSN)
	if err != nil {
		slog.Error("database init failed", "error", err)
		os.Exit(1)
	}
	identityRepo := db.NewIdentityRepository(gdb)
	keyRepo := db.NewAPIKeyRepository(gdb)

	verifier, err := token.New(cfg.SigningSecret, nil)
	if err != nil {
		slog.Error("token verifier init failed", "error", err)
		os.Exit(1)
	}

	var (
		cache   usecase.IdentityCache
		limiter domain.RateLimiter
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cache, err = cacheredis.New(client)
		if err != nil {
			slog.Error("redis cache init failed", "error", err)
			os.Exit(1)
		}
		limiter, err = ratelimit.NewRedisLimiter(client, nil)
		if err != nil {
			slog.Error("redis limiter init failed", "error", err)
			os.Exit(1)
		}
	} else {
		// Single-node mode: in-process cache and counters.
		slog.Warn("GATEKEEPER_REDIS_ADDR not set; using in-process cache and rate limiter")
		cache = cachemem.New(nil)
		limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
	}

	metrics.Register(prometheus.DefaultRegisterer)

	srv := httpinfra.NewServer(cfg, httpinfra.Deps{
		Resolver: &usecase.ResolveIdentity{
			Tokens:   verifier,
			Keys:     keyRepo,
			Cache:    cache,
			Store:    identityRepo,
			CacheTTL: cfg.IdentityCacheTTL,
		},
		KeyManager: &usecase.ManageAPIKeys{Keys: keyRepo, Cache: cache},
		Login:      &usecase.Login{Store: identityRepo, Tokens: verifier, TokenTTL: cfg.TokenTTL},
		Limiter:    limiter,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server exited", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
