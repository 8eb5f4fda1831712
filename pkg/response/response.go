package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope used for error replies and plain messages.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// JSON writes data as-is. Resource endpoints return bare resources.
func JSON[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Message writes a success envelope carrying only a message.
func Message(ctx *gin.Context, status int, message string) APIResponse[any] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, err interface{}) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
