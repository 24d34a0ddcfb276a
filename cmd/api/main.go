package main

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/config"
	mongodoc "github.com/sngm3741/stagelink/api/internal/infrastructure/mongo"
	"github.com/sngm3741/stagelink/api/internal/logger"
	"github.com/sngm3741/stagelink/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.Mongo.URI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}

	colls := cfg.Mongo.Collections
	if err := mongodoc.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database), mongodoc.Collections{
		Users:               colls.Users,
		Messages:            colls.Messages,
		Slots:               colls.Slots,
		Bookings:            colls.Bookings,
		Services:            colls.Services,
		Payments:            colls.Payments,
		Questionnaires:      colls.Questionnaires,
		FailedNotifications: colls.FailedNotifications,
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ensure indexes: %w", err)
	}

	app, err := server.New(ctx, *cfg, client, log)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	log.Info("starting api",
		zap.String("env", cfg.Env),
		zap.String("database", cfg.Mongo.Database),
		zap.String("payment_provider", cfg.Payment.Provider),
		zap.Bool("redis", cfg.Redis.Enabled))
	return app.Run()
}
