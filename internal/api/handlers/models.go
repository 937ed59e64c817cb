package handlers

import (
	"net/http"
	"strings"

	"StockChat/pkg/llm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModelsHandler describes the explanation providers and their models.
type ModelsHandler struct {
	logger   *zap.Logger
	registry *llm.Registry
}

func NewModelsHandler(logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{
		logger:   logger,
		registry: llm.NewRegistry(logger),
	}
}

type ModelsResponse struct {
	CurrentProvider    string             `json:"current_provider"`
	CurrentModel       string             `json:"current_model"`
	AvailableProviders []llm.ProviderInfo `json:"available_providers"`
	SupportedProviders []string           `json:"supported_providers"`
}

// GET /providers - получение информации о доступных провайдерах и моделях
func (h *ModelsHandler) GetAvailableModels(c *gin.Context) {
	providerInfos := h.registry.GetAvailableProviders()

	supportedProviders := make([]string, 0, len(providerInfos))
	for _, info := range providerInfos {
		supportedProviders = append(supportedProviders, info.Name)
	}

	c.JSON(http.StatusOK, ModelsResponse{
		CurrentProvider:    contextString(c, "current_provider"),
		CurrentModel:       contextString(c, "current_model"),
		AvailableProviders: providerInfos,
		SupportedProviders: supportedProviders,
	})
}

// GET /providers/:provider - модели конкретного провайдера
func (h *ModelsHandler) GetProviderModels(c *gin.Context) {
	providerName := strings.ToLower(c.Param("provider"))

	if err := llm.ValidateProvider(providerName); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "provider not found",
			Code:    "PROVIDER_NOT_FOUND",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.registry.GetProviderInfo(providerName))
}

// contextString читает значение, выставленное ProviderInfoMiddleware
func contextString(c *gin.Context, key string) string {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return "unknown"
}
