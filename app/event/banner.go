package event

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EventBanner replaces the banner image of an event
func EventBanner(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if d.Banners == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Banner uploads are disabled on this server",
			"requestID": requestID,
		})
		return
	}

	event := ownedEvent(c, d, "id")
	if event == nil {
		return
	}

	fh, _ := c.FormFile("banner")

	code, f, contentType, err := validators.BannerValidator(fh, viper.GetInt64("upload.max_size")<<20)
	if err != nil {
		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	url, err := d.Banners.Upload(c.Request.Context(), event.ID, f, fh.Size, contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to store banner",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload banner", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.
		Model(&model.Event{}).
		Where("id = ?", event.ID).
		Update("banner_url", url).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save banner url", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bannerURL": url,
	})
}
