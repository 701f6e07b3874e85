package routes

import (
	"github.com/gin-gonic/gin"

	"memwatch/internal/controllers"
)

func RegisterMonitorRoutes(r *gin.Engine) {
	monitor := r.Group("/monitor")
	{
		monitor.GET("", controllers.GetMonitor)
		monitor.GET("/history", controllers.GetMonitorHistory)
	}

	schedule := r.Group("/schedule")
	{
		schedule.GET("", controllers.GetSchedule)
		schedule.PUT("", controllers.SetSchedule)
	}
}
