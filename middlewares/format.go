package middlewares

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	entry := LoggerFrom(c).WithField("status", status)
	if err != nil {
		entry = entry.WithError(err)
	}
	if status >= 500 {
		entry.Error(message)
	} else {
		entry.Debug(message)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
