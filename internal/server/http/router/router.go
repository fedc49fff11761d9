package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cherrytrack/internal/config"
	"github.com/polkiloo/cherrytrack/internal/server/http/handlers"
	"github.com/polkiloo/cherrytrack/internal/server/http/middleware"
)

func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CherryFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	httpLogger := logger.With("component", "http")

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(httpLogger))
	engine.Use(cors.New(corsConfig()))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	logisticsHandler := handlers.NewLogisticsHandler(facade)

	engine.GET("/", handlers.Root)
	engine.NoRoute(handlers.NotFound)

	api := engine.Group("/api")
	api.GET("/health", logisticsHandler.Health)
	api.POST("/auth", authHandler.Verify)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/search", orderHandler.Search)
	api.GET("/tracking/:number", logisticsHandler.Track)

	staff := api.Group("")
	staff.Use(middleware.RoleRequired(facade, cfg.AuthRequired))
	staff.GET("/orders", orderHandler.List)
	staff.GET("/orders/:id", orderHandler.Get)
	staff.PUT("/orders/:id", orderHandler.Update)
	staff.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	staff.PUT("/orders/:id/tracking", orderHandler.UpdateTracking)
	staff.POST("/cron/check-delivery-status", logisticsHandler.CheckDeliveryStatus)

	return engine
}
