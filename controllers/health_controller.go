package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store   Pinger
	service string
}

func NewHealthController(store Pinger, service string) *HealthController {
	return &HealthController{store: store, service: service}
}

// Health handles GET /health.
func (hc *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.store.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  hc.service,
			"database": "unreachable",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  hc.service,
		"database": "ok",
	})
}
