package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memwatch/internal/services"
)

// CaptureSnapshot takes a manual snapshot. Returns 409 when the store
// is at capacity with auto-delete disabled.
func CaptureSnapshot(c *gin.Context) {
	snap, err := services.GetSnapshotStore().Capture(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "snapshot store is at capacity and auto-delete is disabled"})
		return
	}

	services.NotifySnapshot("captured", snap)
	c.JSON(http.StatusCreated, snap)
}

// ListSnapshots returns the current collection plus selection state.
func ListSnapshots(c *gin.Context) {
	store := services.GetSnapshotStore()
	c.JSON(http.StatusOK, gin.H{
		"snapshots": store.List(),
		"selection": store.CurrentSelection(),
		"count":     store.Count(),
	})
}

// DeleteSnapshot removes a single snapshot by id.
func DeleteSnapshot(c *gin.Context) {
	id := c.Param("id")
	if !services.GetSnapshotStore().Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown snapshot id"})
		return
	}

	services.NotifySnapshot("deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// DeleteAllSnapshots clears the collection.
func DeleteAllSnapshots(c *gin.Context) {
	services.GetSnapshotStore().DeleteAll()
	services.NotifySnapshot("cleared", nil)
	c.JSON(http.StatusOK, gin.H{"deleted": "all"})
}

// SelectSnapshot applies the two-slot selection protocol to the given
// snapshot and returns the resulting selection.
func SelectSnapshot(c *gin.Context) {
	id := c.Param("id")
	selection, ok := services.GetSnapshotStore().Select(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown snapshot id"})
		return
	}
	c.JSON(http.StatusOK, selection)
}

// GetSnapshotStats computes summary statistics over the current
// snapshot set.
func GetSnapshotStats(c *gin.Context) {
	snapshots := services.GetSnapshotStore().List()
	c.JSON(http.StatusOK, gin.H{
		"count":      len(snapshots),
		"statistics": services.CalculateStatistics(snapshots),
	})
}
