// Command provision registers the document-store schema validators and
// indexes. It is meant to run once at deploy time, before the API starts:
// the unique email indexes are the authoritative duplicate-submission guard.
// Schema validator failures are warnings; only a connection failure is fatal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/config"
	"github.com/masteryhouse/mastery-house-api/pkg/logger"
	"github.com/masteryhouse/mastery-house-api/pkg/mongodb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Provisioning database", zap.String("database", cfg.Mongo.Database))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		TimeoutSeconds: cfg.Mongo.TimeoutSeconds,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if closeErr := db.Close(context.Background()); closeErr != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(closeErr))
		}
	}()

	for _, w := range db.EnsureSchemas(ctx) {
		logger.Warn("Could not register schema validator",
			zap.String("collection", w.Collection),
			zap.Error(w.Err))
	}

	for _, w := range db.EnsureIndexes(ctx) {
		logger.Warn("Could not create indexes",
			zap.String("collection", w.Collection),
			zap.Error(w.Err))
	}

	logger.Info("Provisioning completed")
}
