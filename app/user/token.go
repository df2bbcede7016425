package user

import (
	"bitwise74/event-api/internal"
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/middleware"
	"bitwise74/event-api/pkg/security"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// issueToken signs a new access token, stores it as the user's current
// session and sets it as a cookie for browser clients
func issueToken(c *gin.Context, d *internal.Deps, userID string) (string, error) {
	ttl := viper.GetDuration("jwt.ttl")

	token, err := security.MakeAuthToken(userID, viper.GetString("jwt.secret"), ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign token, %w", err)
	}

	err = d.DB.
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).
		Error
	if err != nil {
		return "", fmt.Errorf("failed to store token, %w", err)
	}

	c.SetCookie(middleware.AuthCookie, token, int(ttl.Seconds()), "/", "", viper.GetBool("host.ssl.enabled"), true)
	return token, nil
}
