package middleware

import (
	"context"

	"github.com/brickline/storefront/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the response header carrying the request id
const HeaderRequestID = "X-Request-ID"

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	// Reuse the caller's request ID when present
	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)

	// Replace request context
	c.Request = c.Request.WithContext(ctx)

	// Add headers for response
	c.Header(HeaderRequestID, requestID)

	c.Next()
}
