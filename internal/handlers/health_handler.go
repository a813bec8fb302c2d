package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hr-onboarding/internal/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness. It always answers 200; database reachability is
// reported in the body.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		database := "up"
		if err := db.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("health: db ping failed")
			database = "down"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
		})
	}
}
