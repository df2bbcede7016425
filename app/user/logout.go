package user

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func UserLogout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	err := d.DB.
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", nil).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to clear session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}
