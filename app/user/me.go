package user

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/validators"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the logged in user. Secrets never leave the model thanks
// to their json tags
func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User
	if err := d.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateBody struct {
	FullName *string `json:"fullName"`
	Avatar   *string `json:"avatar"`
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{}

	if data.FullName != nil {
		if err := validators.FullNameValidator(*data.FullName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		updates["full_name"] = strings.TrimSpace(*data.FullName)
	}

	if data.Avatar != nil {
		avatar := strings.TrimSpace(*data.Avatar)

		if avatar == "" {
			updates["avatar"] = nil
		} else {
			u, err := url.ParseRequestURI(avatar)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "Avatar must be an http(s) URL",
					"requestID": requestID,
				})
				return
			}

			updates["avatar"] = avatar
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Nothing to update",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := d.DB.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
	if err == nil {
		err = d.DB.Where("id = ?", userID).First(&user).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}
