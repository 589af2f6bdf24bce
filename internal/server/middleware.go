package server

import (
	"strings"

	"github.com/clinicore/clinicore/internal/auditcontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderActor     = "X-Actor-ID"
	HeaderRequestID = "X-Request-ID"
)

// RequestContext captures the caller's identity and connection details
// into the request context, where the audit subscriber picks them up
// when a handler's write publishes domain events.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if actor := strings.TrimSpace(c.GetHeader(HeaderActor)); actor != "" {
			ctx = auditcontext.WithActor(ctx, "user", actor)
		}
		if ip := c.ClientIP(); ip != "" {
			ctx = auditcontext.WithIPAddress(ctx, ip)
		}
		if ua := strings.TrimSpace(c.Request.UserAgent()); ua != "" {
			ctx = auditcontext.WithUserAgent(ctx, ua)
		}

		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = auditcontext.WithRequestID(ctx, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
