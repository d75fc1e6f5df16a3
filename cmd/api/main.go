package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/db/mongo"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/db/redis"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/pkg/config"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/pkg/logger"
)

// @title        Artijam Cart API
// @version      1.0
// @description  Cart identity, mutation and guest-to-user merge service for the Artijam marketplace.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cartRepo := mongo.NewCartRepository(db)
	if err := cartRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("cart index creation failed")
	}
	authRepo := mongo.NewAuthRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(ctx, db, rdb, cfg.JWTSecret, cfg.CartWorkers, log)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	log.Info().Str("port", cfg.Port).Msg("cart service listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Info().Err(err).Msg("server stopped")
	}
}
