package routes

import (
	"github.com/gin-gonic/gin"

	"memwatch/internal/controllers"
)

func RegisterSnapshotRoutes(r *gin.Engine) {
	snapshots := r.Group("/snapshots")
	{
		snapshots.POST("", controllers.CaptureSnapshot)
		snapshots.GET("", controllers.ListSnapshots)
		snapshots.DELETE("", controllers.DeleteAllSnapshots)
		snapshots.GET("/stats", controllers.GetSnapshotStats)
		snapshots.DELETE("/:id", controllers.DeleteSnapshot)
		snapshots.POST("/:id/select", controllers.SelectSnapshot)
	}
}
