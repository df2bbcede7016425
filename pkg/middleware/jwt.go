package middleware

import (
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/security"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthCookie holds the access token for browser clients
const AuthCookie = "auth_token"

// NewJWTMiddleware accepts a token from the Authorization header or the
// auth_token cookie. The token also has to be the one currently stored for
// the user, so logging out invalidates it
func NewJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			tokenStr, _ = c.Cookie(AuthCookie)
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "No authorization token provided",
				"requestID": requestID,
			})
			return
		}

		claims, err := security.ParseAuthToken(tokenStr, viper.GetString("jwt.secret"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization token invalid or expired. Please log in again",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to parse token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		var user model.User
		err = d.
			Select("id", "refresh_token").
			Where("id = ?", claims.UserID).
			First(&user).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "User not found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if user.RefreshToken == nil || *user.RefreshToken != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session ended. Please log in again",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
