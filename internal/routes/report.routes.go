package routes

import (
	"github.com/gin-gonic/gin"

	"memwatch/internal/controllers"
)

func RegisterReportRoutes(r *gin.Engine) {
	report := r.Group("/report")
	{
		report.GET("", controllers.GetReport)
		report.GET("/download", controllers.DownloadReport)
	}
}
