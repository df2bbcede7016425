package root

import (
	"bitwise74/event-api/internal"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat answers 200 while the database is reachable and 503 otherwise
func Heartbeat(c *gin.Context, d *internal.Deps) {
	sqlDB, err := d.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		zap.L().Warn("Database unreachable", zap.Error(err))
		return
	}

	c.Status(http.StatusOK)
}
