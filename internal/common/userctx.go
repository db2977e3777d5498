package common

import "context"

// UserContext holds the identity resolved by the auth middleware. It is
// the only way handlers and stores learn which tenant a request belongs
// to; caller-supplied ids are never trusted.
type UserContext struct {
	UserID   string
	Email    string
	Currency string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil
// if the request did not pass through the auth middleware.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the authenticated user id, or "" when no identity
// is attached.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		return uc.UserID
	}
	return ""
}
