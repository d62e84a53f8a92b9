package main

import (
	"markethub/internal/app"
	"markethub/pkg/cache"
	"markethub/pkg/config"
	"markethub/pkg/database"
	"markethub/pkg/filestore"
	"markethub/pkg/logger"
	"markethub/pkg/queue"
)

// @title           MarketHub Listing API
// @version         1.0
// @description     Listing lifecycle service for the MarketHub marketplace.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()

	mongoClient, db, err := database.NewMongoDatabase(cfg)
	if err != nil {
		log.Error("Failed to connect to MongoDB: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		panic(err)
	}

	fileClient, err := filestore.NewClient(cfg)
	if err != nil {
		log.Error("File host client misconfigured: %v", err)
		panic(err)
	}

	// The queue only carries cleanup advisories; the service still runs
	// without it.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, orphan tasks will only be logged: %v", err)
		queueClient = nil
	}

	app.Run(cfg, log, mongoClient, db, fileClient, queueClient, redisClient)
}
