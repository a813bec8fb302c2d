package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-onboarding/internal/logger"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

// serverError logs err and answers 500. details, when set, is the only part of
// the cause shown to the client.
func serverError(c *gin.Context, msg string, err error, details string) {
	logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(msg)

	body := gin.H{"error": msg}
	if details != "" {
		body["details"] = details
	}
	c.JSON(http.StatusInternalServerError, body)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "Invalid record id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
