package auth

import "context"

type contextKey string

const contextKeyUser contextKey = "auth.user"

// WithUser stores the authenticated caller in the context.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKeyUser, username)
}

// UserFromContext extracts the authenticated caller, if any.
func UserFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if username, ok := ctx.Value(contextKeyUser).(string); ok {
		return username
	}
	return ""
}
