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

// ownedEvent loads the event named by the given route param and makes sure the
// caller created it. It writes the error response itself and returns nil then
func ownedEvent(c *gin.Context, d *internal.Deps, param string) *model.Event {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	event, err := d.Store.FindEvent(c.Request.Context(), c.Param(param))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Event not found",
				"requestID": requestID,
			})
			return nil
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find event", zap.Error(err), zap.String("requestID", requestID))
		return nil
	}

	if event.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     service.ErrNotEventOwner.Error(),
			"requestID": requestID,
		})
		return nil
	}

	return event
}
