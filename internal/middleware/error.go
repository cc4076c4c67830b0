package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
)

// RenderError writes err as {"error":{"code","message"}}. Only AppErrors keep
// their code and message; anything else becomes INTERNAL_ERROR. Wrapped causes
// are logged with the request ID and never sent to the client.
func RenderError(c *gin.Context, err error) {
	appErr := apperrors.ErrInternalServer
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"request_id", RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"request_id", RequestID(c),
			"code", appErr.Code,
			"path", c.Request.URL.Path,
			"internal", appErr.Internal.Error(),
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ErrorHandler renders the last error a handler attached with c.Error, unless
// the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		RenderError(c, c.Errors.Last().Err)
	}
}
