// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/angelamos/marketplace-api/internal/gate"
)

type contextKey string

const (
	ActorKey        contextKey = "actor"
	CapabilitiesKey contextKey = "capabilities"
	RequestIDKey    contextKey = "request_id"
)

// WithActor attaches the resolved actor and its capability set, computed
// once by the session validator.
func WithActor(ctx context.Context, actor gate.Actor) context.Context {
	ctx = context.WithValue(ctx, ActorKey, actor)
	ctx = context.WithValue(ctx, CapabilitiesKey, gate.Compute(actor))
	return ctx
}

func GetActor(ctx context.Context) gate.Actor {
	if actor, ok := ctx.Value(ActorKey).(gate.Actor); ok {
		return actor
	}
	return gate.Actor{}
}

func GetCapabilities(ctx context.Context) gate.Set {
	if set, ok := ctx.Value(CapabilitiesKey).(gate.Set); ok {
		return set
	}
	return gate.Set{}
}

func GetUserID(ctx context.Context) string {
	return GetActor(ctx).ID
}

func GetSessionID(ctx context.Context) string {
	return GetActor(ctx).SessionID
}

func IsAuthenticated(ctx context.Context) bool {
	return GetActor(ctx).Authenticated()
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
