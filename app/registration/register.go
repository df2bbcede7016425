package registration

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	FullName      string         `json:"fullName"`
	Email         string         `json:"email"`
	FormResponses map[string]any `json:"formResponses"`
	PaymentStatus string         `json:"paymentStatus"`
}

// Register signs someone up for an event and mails them their ticket
func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	reg, err := d.Registrar.Register(c.Request.Context(), service.RegisterInput{
		EventID:       c.Param("eventId"),
		FullName:      data.FullName,
		Email:         data.Email,
		FormResponses: data.FormResponses,
		PaymentStatus: data.PaymentStatus,
	})
	if err != nil {
		writeError(c, requestID, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Registration successful",
		"ticketCode": reg.Ticket.Code,
	})
}

func writeError(c *gin.Context, requestID string, err error) {
	var deliveryErr *service.DeliveryError

	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{
			"error":     service.ErrAlreadyRegistered.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrEventClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error":     service.ErrEventClosed.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Event not found",
			"requestID": requestID,
		})
	case errors.As(err, &deliveryErr):
		// The registration is stored, tell the client what it can refer to
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Registration saved but the ticket email could not be sent",
			"attendeeId": deliveryErr.Registration.Attendee.ID,
			"ticketId":   deliveryErr.Registration.Ticket.ID,
			"ticketCode": deliveryErr.Registration.Ticket.Code,
			"requestID":  requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to register attendee", zap.Error(err), zap.String("requestID", requestID))
	}
}
