package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/taxdesk/internal/observability"
)

// envelope is the uniform response shape. Timestamp is the issue time of the
// response, not the time the request arrived. RequestID echoes the caller's
// correlation id (or the generated one). ErrorID is only set for unexpected
// failures so callers can reference it in support requests.
type envelope struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorID   string    `json:"errorId,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{
		Success:   true,
		Timestamp: time.Now().UTC(),
		RequestID: observability.RequestIDFromContext(c.Request.Context()),
		Data:      data,
	})
}

func respondError(c *gin.Context, status int, message, errorID string) {
	c.AbortWithStatusJSON(status, envelope{
		Success:   false,
		Timestamp: time.Now().UTC(),
		RequestID: observability.RequestIDFromContext(c.Request.Context()),
		Error:     message,
		ErrorID:   errorID,
	})
}
