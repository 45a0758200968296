package main

import (
	"context"

	"laptoploan/pkg/app"
	"laptoploan/pkg/client"
	"laptoploan/pkg/config"
	kafka_config "laptoploan/pkg/kafka/config"
)

const ServiceName = "laptoploan"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting laptop loan service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	mongo, err := client.ConnectMongo(context.Background(), cfg.Log, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	application, err := app.New(cfg, mongo, kafkaCfg)
	if err != nil {
		_ = mongo.Disconnect(context.Background())
		cfg.Log.Fatal("Failed to initialize application", "error", err)
	}

	application.Run()
}
