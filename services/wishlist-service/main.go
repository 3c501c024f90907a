package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	ddb "github.com/yashrajoria/marketplace/pkg/dynamodb"
	"github.com/yashrajoria/marketplace/pkg/products"
	"github.com/yashrajoria/marketplace/services/common/auth"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/common/logger"
	"github.com/yashrajoria/marketplace/services/common/middleware"
	"github.com/yashrajoria/marketplace/services/wishlist-service/controllers"
	"github.com/yashrajoria/marketplace/services/wishlist-service/database"
	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
	"github.com/yashrajoria/marketplace/services/wishlist-service/repository"
	"github.com/yashrajoria/marketplace/services/wishlist-service/routes"
	"github.com/yashrajoria/marketplace/services/wishlist-service/services"
)

const serviceName = "wishlist-service"

func main() {
	ctx := context.Background()

	cfg, err := LoadConfig(ctx)
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	// --- AWS setup ---
	awsCfg, err := aws_pkg.LoadConfig(ctx)
	if err != nil {
		panic("failed to load AWS config: " + err.Error())
	}

	var tee io.Writer
	if cfg.CloudWatchLogs {
		if cw, err := aws_pkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName); err == nil && cw.IsEnabled() {
			tee = cw
		}
	}
	log, err := logger.Initialize(cfg.Env, serviceName, tee)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	snsClient := aws_pkg.NewSNSClient(awsCfg)
	metricsClient := aws_pkg.NewMetricsClient(awsCfg)

	// --- Product catalog ---
	mongoClient, mongoDB, err := products.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	source := products.NewMongoSource(mongoDB)

	// --- Wishlist store ---
	repo, closeStore := openStore(ctx, cfg, awsCfg, log)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(apperrors.ErrorMiddleware())

	limiter := middleware.DefaultRateLimiter()
	limiterCtx, stopLimiter := context.WithCancel(ctx)
	go limiter.Run(limiterCtx)
	r.Use(middleware.RateLimitMiddleware(limiter))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	wishlistService := services.NewWishlistService(repo, source, snsClient, cfg.WishlistSNSTopicARN, metricsClient, log)
	wishlistController := controllers.NewWishlistController(wishlistService)
	verifier := auth.NewVerifier(cfg.JWTSecret, "access")

	routes.RegisterWishlistRoutes(r, wishlistController, auth.Middleware(verifier))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName, "store": cfg.Store})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Wishlist Service started", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stopLimiter()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := closeStore(); err != nil {
		log.Error("Wishlist store close error", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", zap.Error(err))
	}

	log.Info("Wishlist Service stopped gracefully")
}

// openStore builds the repository selected by WISHLIST_STORE and returns a
// function releasing its connections.
func openStore(ctx context.Context, cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) (repository.WishlistRepository, func() error) {
	switch cfg.Store {
	case StorePostgres:
		db, err := database.ConnectPostgres(cfg.Postgres, log, &models.Entry{})
		if err != nil {
			log.Fatal("DB connection failed", zap.Error(err))
		}
		return repository.NewGormWishlistRepository(db), func() error { return database.ClosePostgres(db) }

	case StoreDynamo:
		client := ddb.NewClientFromConfig(awsCfg)
		if err := ddb.EnsureTable(ctx, client, cfg.DynamoTable, repository.DynamoPartitionKey, repository.DynamoSortKey); err != nil {
			log.Fatal("DynamoDB table setup failed", zap.Error(err))
		}
		return repository.NewDynamoWishlistRepository(client, cfg.DynamoTable), func() error { return nil }

	default:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		return repository.NewRedisWishlistRepository(client), client.Close
	}
}
