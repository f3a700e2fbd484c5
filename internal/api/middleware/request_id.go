package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the request ID.
	RequestIDKey = "request_id"

	RequestIDHeader = "X-Request-ID"
	// BoxDeliveryHeader identifies one webhook delivery; Box repeats it on retries.
	BoxDeliveryHeader = "Box-Delivery-Id"
)

// RequestID tags each request with an ID taken from X-Request-ID, then from
// Box's delivery header, and generated otherwise. The ID is echoed back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = c.GetHeader(BoxDeliveryHeader)
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
