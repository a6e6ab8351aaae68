package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iammorganparry/articles/internal/auth"
	"github.com/iammorganparry/articles/internal/config"
	"github.com/iammorganparry/articles/internal/logger"
	"github.com/iammorganparry/articles/internal/metrics"
	"github.com/iammorganparry/articles/internal/server"
	"github.com/iammorganparry/articles/internal/store"
)

func main() {
	// Logger
	log := logger.New(os.Stdout, os.Getenv("LOG_LEVEL"))

	// Config
	cfg, err := config.LoadServer()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set; tokens are signed with the public default secret")
	}

	// SQLite
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.SeedArticles {
		n, err := store.NewArticleStore(db).Seed(context.Background())
		if err != nil {
			log.Error("failed to seed articles", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			log.Info("seeded articles", "count", n)
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	limiter := server.NewRateLimiter(server.PerMinute(cfg.LoginRatePerMin, cfg.LoginBurst), collector, log)
	defer limiter.Stop()

	// Router
	router := server.NewRouter(db, tokens, limiter, collector, reg, log)

	// Server
	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("articles server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	log.Info("server stopped")
}
