package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	listingHTTP "markethub/internal/controller/http"
	"markethub/internal/repo/persistent"
	"markethub/internal/usecase"
	"markethub/pkg/config"
	"markethub/pkg/database"
	"markethub/pkg/filestore"
	"markethub/pkg/jwt"
	"markethub/pkg/logger"
	"markethub/pkg/middleware"
	"markethub/pkg/queue"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func Run(
	cfg *config.Config,
	log *logger.Logger,
	mongoClient *mongo.Client,
	db *mongo.Database,
	fileClient *filestore.Client,
	queueClient *queue.Client,
	redisClient *redis.Client,
) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	listingRepo := persistent.NewListingRepository(db)
	paymentRepo := persistent.NewPaymentRepository(db)
	reviewRepo := persistent.NewReviewRepository(db)
	notificationRepo := persistent.NewNotificationRepository(db)

	// Dependent-record sweepers, one per collection touched on delete
	sweepers := []usecase.DependentSweeper{
		usecase.NewPaymentSweeper(paymentRepo),
		usecase.NewReviewSweeper(reviewRepo),
		usecase.NewNotificationSweeper(notificationRepo),
	}

	uploader := filestore.NewBatchUploader(fileClient, log)

	var publisher usecase.OrphanPublisher
	if queueClient != nil {
		publisher = queueClient
	}

	listingUseCase := usecase.NewListingUseCase(
		listingRepo,
		paymentRepo,
		sweepers,
		uploader,
		redisClient,
		publisher,
		log,
	)

	listingHandler := listingHTTP.NewListingHandler(listingUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	listingHandler.RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Listing service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down listing service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.Close(mongoClient); err != nil {
		log.Error("Error closing MongoDB: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Listing service stopped")
}
