package listview

import "context"

// AuthContext identifies the operator driving a controller. It is passed
// explicitly to constructors and attached to outgoing request contexts.
type AuthContext struct {
	UserID string
	Token  string
	Role   string
}

// Authenticated reports whether a bearer token is available.
func (a AuthContext) Authenticated() bool {
	return a.Token != ""
}

type authContextKey struct{}

// ContextWithAuth stores auth on the provided context.
func ContextWithAuth(ctx context.Context, auth AuthContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext extracts auth from the context, if present.
func AuthFromContext(ctx context.Context) AuthContext {
	if ctx == nil {
		return AuthContext{}
	}
	if auth, ok := ctx.Value(authContextKey{}).(AuthContext); ok {
		return auth
	}
	return AuthContext{}
}
