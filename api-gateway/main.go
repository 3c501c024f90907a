package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/api-gateway/proxy"
	"github.com/yashrajoria/marketplace/api-gateway/routes"
	"github.com/yashrajoria/marketplace/services/common/auth"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/common/logger"
	"github.com/yashrajoria/marketplace/services/common/middleware"
)

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	log, err := logger.Initialize(getEnv("APP_ENV", "development"), "api-gateway", nil)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	log.Info("Starting API Gateway...")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(apperrors.ErrorMiddleware())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter := middleware.DefaultRateLimiter()
	go limiter.Run(ctx)
	r.Use(middleware.RateLimitMiddleware(limiter))

	fwd := proxy.NewForwarder(30*time.Second, log)
	routes.RegisterAllRoutes(r, fwd, auth.NewVerifier(secret, "access"), routes.Upstreams{
		Catalog:  getEnv("CATALOG_SERVICE_URL", "http://catalog-service:8093"),
		Wishlist: getEnv("WISHLIST_SERVICE_URL", "http://wishlist-service:8094"),
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "api-gateway"})
	})

	port := getEnv("PORT", "8080")
	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Info("API Gateway listening on port", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("API Gateway stopped")
}
