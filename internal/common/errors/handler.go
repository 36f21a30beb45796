// internal/common/errors/handler.go
package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns failures into HTTP error responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// HandleHTTPError writes the response for err and aborts the gin chain.
func (h *ErrorHandler) HandleHTTPError(c *gin.Context, stdErr *StandardError) {
	status := HTTPStatus(stdErr.Code)
	h.logError(c, stdErr, status)
	c.AbortWithStatusJSON(status, ErrorBody{
		Detail: stdErr.Message,
		Code:   string(stdErr.Code),
	})
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        c.Request.Method,
		"path":          c.Request.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if IsClientError(stdErr.Code) {
		h.logger.Warn("request rejected", fields)
		return
	}
	if stdErr.cause != nil {
		fields["error"] = stdErr.cause.Error()
	}
	h.logger.Error("request failed", fields)
}
