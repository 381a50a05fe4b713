package main

import (
	"context"
	"time"

	"github.com/developia-II/catalog-backend/internal/adapters/repository/mongodb"
	"github.com/developia-II/catalog-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// Creates the catalog collections and indexes ahead of a deploy. The server
// does the same on startup; this lets an operator do it without serving.
// Usage: go run scripts/create_indexes.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver != config.StoreMongo {
		logrus.Fatalf("STORE_DRIVER is %q, indexes only apply to %q", cfg.StoreDriver, config.StoreMongo)
	}

	// Atlas can be slow to answer the first connection.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logrus.Info("Connecting to MongoDB...")
	store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	for coll, models := range mongodb.Indexes() {
		logrus.WithFields(logrus.Fields{"collection": coll, "indexes": len(models)}).Info("indexes in place")
	}
	logrus.Info("All indexes created successfully")
}
