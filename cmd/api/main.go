package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fiesta-frutilla/festival_cms/internal/config"
	"github.com/fiesta-frutilla/festival_cms/internal/infra"
	"github.com/fiesta-frutilla/festival_cms/internal/logging"
	"github.com/fiesta-frutilla/festival_cms/internal/routes"
	"github.com/fiesta-frutilla/festival_cms/internal/server"
)

const connectTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.AppName)

	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger}

	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	defer cancelConnect()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := infra.NewMongoClient(connectCtx, cfg.MongoURI, cfg.AppName)
		if err != nil {
			logger.Error("connect mongodb", "error", err)
			os.Exit(1)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("disconnect mongodb", "error", err)
			}
		}()
		deps.Mongo = client.Database(cfg.MongoDatabase)
		logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
	case config.DriverPostgres:
		db, err := infra.NewPostgresPool(connectCtx, cfg.DatabaseURL, cfg.StoreTimeout)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
		logger.Info("connected to postgres")
	}

	cache, err := infra.NewRedisClient(connectCtx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set; login throttling and idempotent replays are disabled")
	}

	srv, err := server.New(connectCtx, deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}
	cancelConnect()

	srvErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", cfg.Address(), "env", cfg.AppEnv, "store", cfg.StoreDriver)
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
