package main

import (
	"context"
	"time"

	mongoMigration "laptoploan/internal/migrations/mongo"
	"laptoploan/pkg/client"
	"laptoploan/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	mongo, err := client.ConnectMongo(ctx, cfg.Log, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongo.Disconnect(context.Background())

	if err := mongoMigration.RunMigration(ctx, mongo.DB, cfg.Log); err != nil {
		_ = mongo.Disconnect(context.Background())
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
