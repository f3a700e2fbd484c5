package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"box-skill-whisper/internal/api/errors"
)

// ErrorHandler recovers panics into APIError responses. Panics carrying an
// *APIError are answered as-is; anything else is logged and answered as 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if apiErr, ok := recovered.(*errors.APIError); ok {
			respond(c, apiErr)
			return
		}

		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		logger.Error("Internal server error",
			zap.Error(err),
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		respond(c, errors.NewInternalError("Internal server error"))
	})
}

// HandleError answers with err mapped through FromPipelineError. Unclassified
// errors are attached to the context so the access log records them.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := errors.FromPipelineError(err)
	if apiErr.Kind == errors.KindInternal {
		_ = c.Error(err)
	}
	respond(c, apiErr)
}

func respond(c *gin.Context, apiErr *errors.APIError) {
	apiErr.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
