package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samevibe-service/internal/bus"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, b bus.Bus, enabled bool) {
	if !enabled {
		return
	}

	router.POST("/debug/publish", func(c *gin.Context) {
		var req struct {
			Channel string      `json:"channel" binding:"required"`
			Event   interface{} `json:"event" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := b.Publish(c.Request.Context(), req.Channel, req.Event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
