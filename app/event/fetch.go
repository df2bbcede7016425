package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventFetch is public, people need to see an event before registering
func EventFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	event, err := d.Store.FindEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Event not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, model.PublicEvent{
		ID:              event.ID,
		Title:           event.Title,
		BannerURL:       event.BannerURL,
		RequiresPayment: event.RequiresPayment,
		Amount:          event.Amount,
		FormFields:      event.FormFields,
		StartsAt:        event.StartsAt,
		EndsAt:          event.EndsAt,
		IsClosed:        event.IsClosed,
	})
}
