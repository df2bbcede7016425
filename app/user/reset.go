package user

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/security"
	"bitwise74/event-api/pkg/validators"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetRequestedMsg = "If the email is registered a reset link is on its way"

type resetRequestBody struct {
	Email string `json:"email"`
}

// UserResetRequest mails a password reset link. The answer is the same
// whether the email is known or not
func UserResetRequest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resetRequestBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	email := validators.NormalizeEmail(data.Email)
	if err := validators.EmailValidator(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := d.DB.Select("id", "email").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := security.MakeResetToken(security.ResetTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"reset_token":        token.Hash,
			"reset_token_expiry": token.ExpiresAt,
		}).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Mailer.SendResetMail(c.Request.Context(), user.Email, resetLink(token.Plain), security.ResetTokenTTL); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to send reset email, please try again later",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send reset email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
}

func resetLink(token string) string {
	var s string
	if viper.GetBool("host.ssl.enabled") {
		s = "s"
	}

	return fmt.Sprintf("http%v://%v/reset-password/%v", s, viper.GetString("host.domain"), token)
}

type resetBody struct {
	Password string `json:"password"`
}

// UserReset sets a new password for the owner of a valid reset token. Any
// open session is ended
func UserReset(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No reset token provided",
			"requestID": requestID,
		})
		return
	}

	var data resetBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	errTokenInvalid := errors.New("token invalid")

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&model.User{}).
			Where("reset_token = ? AND reset_token_expiry > ?", security.HashResetToken(token), time.Now().UTC()).
			Updates(map[string]any{
				"password_hash":      hash,
				"reset_token":        nil,
				"reset_token_expiry": nil,
				"refresh_token":      nil,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return errTokenInvalid
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Token expired or invalid",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to reset password",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reset password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Password reset successful",
		"requestID": requestID,
	})
}
