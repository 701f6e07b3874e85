package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memwatch/internal/models"
	"memwatch/internal/services"
)

// GetMonitor returns the live monitor's current reading and analysis
// context.
func GetMonitor(c *gin.Context) {
	c.JSON(http.StatusOK, services.GetLiveMonitor().State())
}

// GetMonitorHistory returns the rolling reading window.
func GetMonitorHistory(c *gin.Context) {
	history := services.GetLiveMonitor().History()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(history),
		"readings": history,
	})
}

// GetSchedule returns the configured capture interval and whether a
// timer is armed.
func GetSchedule(c *gin.Context) {
	sched := services.GetScheduler()
	c.JSON(http.StatusOK, gin.H{
		"interval": sched.Interval(),
		"active":   sched.Active(),
	})
}

// SetSchedule changes the capture interval. The previous timer is
// cancelled before the new one is armed.
func SetSchedule(c *gin.Context) {
	var body struct {
		Interval string `json:"interval"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	interval, err := models.ParseScheduleInterval(body.Interval)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sched := services.GetScheduler()
	sched.SetInterval(interval)
	c.JSON(http.StatusOK, gin.H{
		"interval": sched.Interval(),
		"active":   sched.Active(),
	})
}
