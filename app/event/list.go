package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventList returns the events created by the caller, newest first
func EventList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	events := []model.Event{}

	err := d.DB.
		Where("created_by_id = ?", userID).
		Order("created_at desc").
		Find(&events).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list events", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
	})
}
