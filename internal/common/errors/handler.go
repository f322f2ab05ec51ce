// internal/common/errors/handler.go
package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponder turns errors into JSON API responses.
type ErrorResponder struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ErrorBody is the JSON shape of every API error. Details never leave the process.
type ErrorBody struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Retryable bool      `json:"retryable"`
}

func NewErrorResponder(logger Logger) *ErrorResponder {
	return &ErrorResponder{logger: logger}
}

// Respond writes err to c and aborts the handler chain.
func (h *ErrorResponder) Respond(c *gin.Context, err error) {
	h.RespondWith(c, err, nil)
}

// RespondWith is Respond with additional top-level response fields.
func (h *ErrorResponder) RespondWith(c *gin.Context, err error, extra map[string]interface{}) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	body := gin.H{
		"error":     stdErr.Message,
		"code":      stdErr.Code,
		"retryable": stdErr.Retryable,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *ErrorResponder) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
		"path":          c.FullPath(),
	}
	if status >= 500 {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}
