package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/pkg/validators"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type editBody struct {
	Title           *string         `json:"title"`
	RequiresPayment *bool           `json:"requiresPayment"`
	Amount          *float64        `json:"amount"`
	FormFields      json.RawMessage `json:"formFields"`
	StartsAt        *time.Time      `json:"startsAt"`
	EndsAt          *time.Time      `json:"endsAt"`
	IsClosed        *bool           `json:"isClosed"`
}

// EventEdit applies a partial update. Only the creator can edit an event
func EventEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data editBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	event := ownedEvent(c, d, "id")
	if event == nil {
		return
	}

	if data.Title != nil {
		event.Title = strings.TrimSpace(*data.Title)
	}
	if data.RequiresPayment != nil {
		event.RequiresPayment = *data.RequiresPayment
	}
	if data.Amount != nil {
		event.Amount = data.Amount
	}
	if data.FormFields != nil {
		event.FormFields = formFields(data.FormFields)
	}
	if data.StartsAt != nil {
		event.StartsAt = utc(data.StartsAt)
	}
	if data.EndsAt != nil {
		event.EndsAt = utc(data.EndsAt)
	}
	if data.IsClosed != nil {
		event.IsClosed = *data.IsClosed
	}

	err := validators.EventValidator(&validators.EventOpts{
		Title:           event.Title,
		RequiresPayment: event.RequiresPayment,
		Amount:          event.Amount,
		FormFields:      json.RawMessage(event.FormFields),
		StartsAt:        event.StartsAt,
		EndsAt:          event.EndsAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if !event.RequiresPayment {
		event.Amount = nil
	}

	if err := d.DB.Save(event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, event)
}
