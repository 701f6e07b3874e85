package routes

import (
	"github.com/gin-gonic/gin"

	"memwatch/internal/controllers"
)

// RegisterAuthRoutes registers the authenticated WebSocket endpoint.
// Tokens are issued at startup and printed to the log; there is no
// HTTP token endpoint.
func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/ws", controllers.HandleWebSocket)
}
