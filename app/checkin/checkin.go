package checkin

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckIn admits a ticket holder. Scanning the same ticket again is fine and
// reports the original check-in time
func CheckIn(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	res, err := d.CheckIn.CheckIn(c.Request.Context(), c.Param("ticketId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Ticket not found",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrAttendeeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Attendee not found",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrNotEventOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     service.ErrNotEventOwner.Error(),
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check in ticket", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, res)
}
