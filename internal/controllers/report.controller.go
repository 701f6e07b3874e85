package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"memwatch/internal/services"
)

// ReportSettings holds the report configuration wired at startup.
var reportSettings services.ReportConfig

// ConfigureReports sets the report eligibility threshold and header label.
func ConfigureReports(cfg services.ReportConfig) {
	reportSettings = cfg
}

// GetReport generates and returns the structured diagnostic document.
// Returns 422 when the snapshot count is below the eligibility
// threshold.
func GetReport(c *gin.Context) {
	report, err := services.GenerateMemoryReport(services.GetSnapshotStore().List(), reportSettings)
	if err != nil {
		var insufficient *services.InsufficientDataError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    insufficient.Error(),
				"required": insufficient.Required,
				"actual":   insufficient.Actual,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DownloadReport renders the report as a markdown artifact with a
// date-stamped default filename.
func DownloadReport(c *gin.Context) {
	report, err := services.GenerateMemoryReport(services.GetSnapshotStore().List(), reportSettings)
	if err != nil {
		var insufficient *services.InsufficientDataError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    insufficient.Error(),
				"required": insufficient.Required,
				"actual":   insufficient.Actual,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := services.DefaultReportFilename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(services.RenderMarkdown(report)))
}
