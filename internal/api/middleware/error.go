package middleware

import (
	"fmt"
	"net/http"

	"spark-spread/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panics into the standard error envelope.
// The spread computation itself is total over valid input; anything that
// still panics is a bug worth a log line.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": fmt.Sprintf("%v", recovered),
			},
		})
		c.Abort()
	})
}
