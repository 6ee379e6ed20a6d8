package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

type HealthHandler struct {
	backendMode string
}

func NewHealthHandler(backendMode string) *HealthHandler {
	return &HealthHandler{backendMode: backendMode}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.backendMode})
}
