package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventAttendees lists everyone registered for an event with their ticket and
// payment. Only the creator of the event may see it
func EventAttendees(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	event := ownedEvent(c, d, "eventId")
	if event == nil {
		return
	}

	attendees := []model.Attendee{}

	err := d.DB.
		Preload("Ticket").
		Preload("Payment").
		Where("event_id = ?", event.ID).
		Order("created_at asc").
		Find(&attendees).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list attendees", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"eventId":   event.ID,
		"attendees": attendees,
	})
}
