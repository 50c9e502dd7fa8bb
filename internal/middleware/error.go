package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// Recovery turns a panic into a 500 JSON body instead of a dropped connection
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.String("request_id", c.GetString(RequestIDContextKey)),
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
					Error:   "Internal server error",
					Message: fmt.Sprint(err),
				})
			}
		}()

		c.Next()
	}
}

// ErrorHandler writes a JSON error for handlers that attached an error with
// c.Error but did not write a response themselves
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		logger.Error("Unhandled error",
			zap.String("request_id", c.GetString(RequestIDContextKey)),
			zap.Error(last.Err),
		)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "Internal server error",
			Message: last.Error(),
		})
	}
}

// NotFound answers unknown routes with the common error shape
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "Not found",
			Message: fmt.Sprintf("%s %s does not exist", c.Request.Method, c.Request.URL.Path),
		})
	}
}
