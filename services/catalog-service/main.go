package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	"github.com/yashrajoria/marketplace/pkg/products"
	"github.com/yashrajoria/marketplace/services/catalog-service/cache"
	"github.com/yashrajoria/marketplace/services/catalog-service/consumer"
	"github.com/yashrajoria/marketplace/services/catalog-service/controllers"
	"github.com/yashrajoria/marketplace/services/catalog-service/routes"
	"github.com/yashrajoria/marketplace/services/catalog-service/services"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/common/logger"
	"github.com/yashrajoria/marketplace/services/common/middleware"
)

const serviceName = "catalog-service"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	metricsClient := aws_pkg.NewMetricsClient(awsCfg)

	// --- Product catalog ---
	mongoClient, mongoDB, err := products.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	source := products.NewMongoSource(mongoDB)
	if err := source.EnsureIndexes(ctx); err != nil {
		log.Warn("Failed to ensure catalog indexes", zap.Error(err))
	}

	// --- Tree cache (optional) ---
	var treeCache services.TreeCache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, cache disabled", zap.Error(err))
		} else {
			treeCache = cache.NewTreeCache(redisClient, cfg.CacheTTL, log)
		}
	}

	// --- Dependency injection ---
	catalogService := services.NewCatalogService(source, treeCache, metricsClient, log)
	catalogController := controllers.NewCatalogController(catalogService)

	// --- Cache invalidation consumer ---
	if cfg.CatalogEventsQueueURL != "" {
		sqsConsumer := aws_pkg.NewSQSConsumer(awsCfg, cfg.CatalogEventsQueueURL, log)
		handler := consumer.NewInvalidationHandler(catalogService, log)
		go func() {
			_ = sqsConsumer.StartPolling(ctx, handler.Handle)
		}()
	}

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
	go limiter.Run(ctx)
	r.Use(middleware.RateLimitMiddleware(limiter))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterCatalogRoutes(r, catalogController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName, "cache": treeCache != nil})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Catalog Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", zap.Error(err))
	}

	log.Info("Catalog Service stopped gracefully")
}
