package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/validators"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type createBody struct {
	Title           string          `json:"title"`
	RequiresPayment bool            `json:"requiresPayment"`
	Amount          *float64        `json:"amount"`
	FormFields      json.RawMessage `json:"formFields"`
	StartsAt        *time.Time      `json:"startsAt"`
	EndsAt          *time.Time      `json:"endsAt"`
}

func EventCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data createBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err := validators.EventValidator(&validators.EventOpts{
		Title:           data.Title,
		RequiresPayment: data.RequiresPayment,
		Amount:          data.Amount,
		FormFields:      data.FormFields,
		StartsAt:        data.StartsAt,
		EndsAt:          data.EndsAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	event := &model.Event{
		Title:           strings.TrimSpace(data.Title),
		RequiresPayment: data.RequiresPayment,
		FormFields:      formFields(data.FormFields),
		StartsAt:        utc(data.StartsAt),
		EndsAt:          utc(data.EndsAt),
		CreatedByID:     userID,
	}

	if data.RequiresPayment {
		event.Amount = data.Amount
	}

	if err := d.DB.Create(event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, event)
}

func formFields(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("[]")
	}

	return datatypes.JSON(raw)
}

// Times are stored in UTC so the sweeper can compare them as they are
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()
	return &u
}
