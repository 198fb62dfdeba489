// Package main is the entry point for the clinic API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vetcore/clinic-api/internal/api"
	"github.com/vetcore/clinic-api/internal/infrastructure/config"
	clinicmongo "github.com/vetcore/clinic-api/internal/infrastructure/db/mongo"
	clinicredis "github.com/vetcore/clinic-api/internal/infrastructure/db/redis"
	"github.com/vetcore/clinic-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; config failures (e.g. missing JWT_SECRET)
		// must still abort startup loudly.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := clinicmongo.Connect(ctx, clinicmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := clinicmongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := clinicredis.Connect(ctx, clinicredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(ctx, cfg, db, rdb, log)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("clinic api listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Info().Err(err).Msg("server stopped")
	}
}
