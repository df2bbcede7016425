package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventDelete removes an event. Attendees, their tickets and payments go with
// it through the foreign keys
func EventDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	event := ownedEvent(c, d, "id")
	if event == nil {
		return
	}

	if err := d.DB.Delete(&model.Event{}, "id = ?", event.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
