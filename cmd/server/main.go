package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.Common.LogLevel).With("service", cfg.Common.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DB.Driver, cfg.DB.URL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	issuer, err := tokens.NewIssuer(tokens.Config{
		Secret:    []byte(cfg.JWT.Secret),
		Algorithm: cfg.JWT.Algorithm,
		TTL:       cfg.JWT.TTL,
	})
	if err != nil {
		log.Fatalf("token issuer error: %v", err)
	}

	prod := events.New(cfg.Kafka.Brokers)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(cfg.Common.ServiceName, reg)

	rp := repo.New(gdb)
	authSvc := &service.AuthService{
		Repo:     rp,
		Hasher:   hash.New(cfg.Auth.BcryptCost),
		Tokens:   issuer,
		Producer: prod,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		loggingmw.RequestLogger(logger),
		httpMetrics.Middleware,
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSOrigins,
			AllowMethods:     []string{"*"},
			AllowHeaders:     []string{"*"},
			AllowCredentials: true,
		}),
	)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: rp}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: rp, Products: rp, Producer: prod}},
		Auth:           auth.NewBearerAuth(authSvc),
		Ready: func(ctx context.Context) error {
			return db.Ping(ctx, gdb)
		},
		Metrics:   httpMetrics,
		ImagesDir: cfg.HTTP.ImagesDir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
