package middleware

import "context"

type contextKey string

const (
	ctxVolunteerID contextKey = "volunteer_id"
	ctxActorName   contextKey = "actor_name"
	ctxRole        contextKey = "actor_role"
)

func VolunteerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxVolunteerID).(string); ok {
		return v
	}
	return ""
}

func ActorNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorName).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithVolunteerID injects the authenticated identity into the context.
func WithVolunteerID(ctx context.Context, volunteerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxVolunteerID, volunteerID)
}
