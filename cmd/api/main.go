package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fullstack/internal/auth"
	"fullstack/internal/cache"
	"fullstack/internal/config"
	"fullstack/internal/core/warmup"
	httpx "fullstack/internal/http"
	middlewarex "fullstack/internal/http/middleware"
	"fullstack/internal/services/booking"
	"fullstack/internal/services/coffee"
	"fullstack/internal/services/trivia"
	"fullstack/internal/store/memory"
	"fullstack/internal/store/postgres"
	"fullstack/internal/store/repositories"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.App)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(ctx, cfg.DB)
	defer store.Close()

	cats := cache.Dial(cfg.Redis.Addr, cfg.Redis.CacheTTL)
	defer cats.Close()
	if cats != nil {
		// ✅ Start category cache warmup worker
		go warmup.NewWorker(store.Categories(), cats, cfg.Redis.CacheTTL/2).Run(ctx)
	}

	verifier := newVerifier(cfg.Auth)
	if !verifier.Enabled() {
		log.Warn().Msg("no token verifier configured, protected coffee routes will reject every request")
	}

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:   cfg.HTTP,
		Trivia:   trivia.NewService(store, cats, nil),
		Coffee:   coffee.NewService(store),
		Booking:  booking.NewService(store, nil),
		Verifier: verifier,
		Metrics:  middlewarex.NewMetrics(),
		Health:   store,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("driver", cfg.DB.Driver).Msgf("fullstack API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}

func setupLogger(app config.AppCfg) {
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if app.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func openStore(ctx context.Context, cfg config.DBCfg) repositories.Store {
	if cfg.Driver == "memory" {
		log.Info().Msg("using in-memory store")
		return memory.New()
	}

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DSN, cfg.ConnectRetries)
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}
	return postgres.NewRepo(pool)
}

func newVerifier(cfg config.AuthCfg) *auth.Verifier {
	opts := auth.Options{Audience: cfg.Audience, Issuer: cfg.Issuer()}
	if uri := cfg.JWKS(); uri != "" {
		opts.JWKS = auth.NewJWKSCache(uri, nil, 0)
	}
	if cfg.HS256Secret != "" {
		opts.HS256Secret = []byte(cfg.HS256Secret)
	}
	return auth.NewVerifier(opts)
}
