package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
)

// Logger logs each request at debug level once it has been served.
func Logger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}
	log = log.With(slog.String("component", "middleware/logger"))

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Debug("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.String("remote_addr", c.ClientIP()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
