package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// RegisterHealthRoutes registers the liveness routes. They never check upstreams.
func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/health", healthCheck)
	r.GET("/healthz", healthCheck)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{Status: "healthy"})
}
