package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// Logger writes one access log entry per request
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c.Request.Context())),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Info("Request handled", fields...)
	}
}

// Recovery turns a panic in a handler into a 500 carrying the panic message
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		msg := fmt.Sprint(recovered)
		logger.Error("Handler panicked",
			zap.String("request_id", GetRequestID(c.Request.Context())),
			zap.String("path", c.Request.URL.Path),
			zap.String("panic", msg),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{Error: msg})
	})
}
