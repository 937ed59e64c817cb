package routes

import (
	"StockChat/internal/api/handlers"
	"StockChat/internal/api/middleware"
	"StockChat/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	cfg *config.Config,
	logger *zap.Logger,
	chatHandler *handlers.ChatHandler,
	stocksHandler *handlers.StocksHandler,
	healthHandler *handlers.HealthHandler,
	modelsHandler *handlers.ModelsHandler,
) *gin.Engine {

	// Настройка Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.TimeoutMiddleware(cfg.Server.WriteTimeout))
	r.Use(middleware.ProviderInfoMiddleware(cfg.LLM.Provider, cfg.LLM.Model, logger))

	r.GET("/", healthHandler.Welcome)
	r.GET("/health", healthHandler.Check)

	// API routes
	api := r.Group("/api/v1")
	{
		chat := api.Group("/chat")
		{
			chat.POST("", chatHandler.SendMessage)
			chat.POST("/sessions", chatHandler.CreateSession)

			// Операции с сессиями
			chat.GET("/:session_id", chatHandler.GetSession)
			chat.DELETE("/:session_id", chatHandler.DeleteSession)

			// История сообщений
			chat.GET("/:session_id/history", chatHandler.GetHistory)
		}

		api.GET("/stocks/:symbol", stocksHandler.GetStock)
		api.GET("/companies", stocksHandler.SearchCompanies)

		providers := api.Group("/providers")
		{
			providers.GET("", modelsHandler.GetAvailableModels)
			providers.GET("/:provider", modelsHandler.GetProviderModels)
		}

		api.GET("/metrics", chatHandler.GetMetrics)
	}

	return r
}
