// Package auditcontext carries request-scoped metadata consumed by the
// audit trail: the acting user, client address, and user agent. All
// lookups tolerate absent values.
package auditcontext

import (
	"context"
	"strings"
)

type actorKey struct{}
type ipAddressKey struct{}
type userAgentKey struct{}
type requestIDKey struct{}

type actor struct {
	Type string
	ID   string
}

// WithActor stores the acting principal in the context.
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{
		Type: strings.TrimSpace(actorType),
		ID:   strings.TrimSpace(actorID),
	})
}

// ActorFromContext returns the acting principal, if any.
func ActorFromContext(ctx context.Context) (actorType, actorID string) {
	if ctx == nil {
		return "", ""
	}
	if value, ok := ctx.Value(actorKey{}).(actor); ok {
		return value.Type, value.ID
	}
	return "", ""
}

// WithIPAddress stores the client IP address in the context.
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey{}, strings.TrimSpace(ip))
}

// IPAddressFromContext returns the client IP address, or "".
func IPAddressFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(ipAddressKey{}).(string)
	return value
}

// WithUserAgent stores the client user agent in the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, strings.TrimSpace(ua))
}

// UserAgentFromContext returns the client user agent, or "".
func UserAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userAgentKey{}).(string)
	return value
}

// WithRequestID stores the request correlation id in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(id))
}

// RequestIDFromContext returns the request correlation id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}
