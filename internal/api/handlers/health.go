package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const welcomeText = "Welcome to the Stock Explain App Backend."

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// GET /
func (h *HealthHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, welcomeText)
}
