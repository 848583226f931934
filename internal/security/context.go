package security

import "context"

// sessionTokenKey is the key type for storing the session token in context.Context.
type sessionTokenKey struct{}

// WithSession returns a new context carrying a session token.
func WithSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// TokenFromContext returns the session token carried by ctx, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey{}).(string)
	return token
}
