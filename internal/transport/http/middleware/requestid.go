package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestID tags every request with an id, honoring the configured header
// when the client supplies one and generating a uuid otherwise.
func RequestID(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqID string
		if header != "" {
			reqID = c.Get(header)
		}
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDKey, reqID))
		return c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside of it.
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.UserContext().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
