package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"StockChat/internal/api/handlers"
	"StockChat/internal/api/routes"
	"StockChat/internal/config"
	"StockChat/internal/service/chat"
	"StockChat/internal/storage/memory"
	"StockChat/pkg/companysearch"
	"StockChat/pkg/llm"
	"StockChat/pkg/llm/providers"
	"StockChat/pkg/marketdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env не обязателен
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Настройка логгера
	logger, err := setupLogger(cfg.Logging)
	if err != nil {
		panic(fmt.Sprintf("Failed to setup logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting stock chat server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Duration("session_ttl", cfg.Chat.SessionTTL),
		zap.Int("max_sessions", cfg.Chat.MaxSessions),
	)
	logger.Debug("Effective configuration", zap.Any("config", cfg.Redacted()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Реестр сессий в памяти с TTL и фоновой очисткой
	storage := memory.New(memory.Config{
		SessionTTL:  cfg.Chat.SessionTTL,
		MaxSessions: cfg.Chat.MaxSessions,
	}, logger)
	go storage.RunJanitor(ctx, cfg.Chat.CleanupInterval)

	llmClient, err := initLLMClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer llmClient.Close()

	logger.Info("LLM client initialized",
		zap.String("provider", llmClient.GetProviderName()),
		zap.Strings("supported_models", llmClient.GetSupportedModels()),
	)

	market := marketdata.NewAlphaVantageClient(marketdata.Config{
		BaseURL: cfg.MarketData.BaseURL,
		APIKey:  cfg.MarketData.APIKey,
		Timeout: cfg.MarketData.Timeout,
	}, logger)
	search := companysearch.NewFMPClient(companysearch.Config{
		BaseURL: cfg.CompanySearch.BaseURL,
		APIKey:  cfg.CompanySearch.APIKey,
		Timeout: cfg.CompanySearch.Timeout,
	}, logger)

	extractor := chat.NewExtractor(chat.NewGazetteerRecognizer(cfg.Chat.KnownCompanies))
	resolver := chat.NewResolver(extractor, market, search, llmClient, chat.ResolverConfig{
		MaxOptions: cfg.Chat.MaxOptions,
		RecentDays: cfg.Chat.RecentDays,
	}, logger)

	chatService := chat.NewService(storage, storage, resolver, logger)

	// Инициализация handlers
	chatHandler := handlers.NewChatHandler(chatService, logger)
	stocksHandler := handlers.NewStocksHandler(market, search, logger)
	healthHandler := handlers.NewHealthHandler()
	modelsHandler := handlers.NewModelsHandler(logger)

	router := routes.SetupRoutes(cfg, logger, chatHandler, stocksHandler, healthHandler, modelsHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions", storage.Len()))
}

func initLLMClient(cfg *config.Config, logger *zap.Logger) (*llm.Client, error) {
	factory := providers.NewFactory(logger.With(zap.String("component", "llm")))
	provider, err := factory.CreateProvider(cfg.ToProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.LLM.Provider, err)
	}

	return llm.NewClientWithProvider(provider, logger.With(zap.String("component", "llm"))), nil
}

func setupLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	// Настройка уровня логирования
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return zapCfg.Build()
}
