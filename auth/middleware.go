package auth

import (
	"context"
	"net/http"

	"github.com/user/finflow-go/apperror"
)

// contextKey is a private type for context keys, preventing collisions with
// keys set by other packages.
type contextKey string

const (
	userIDKey   contextKey = "userID"
	usernameKey contextKey = "username"
)

// JWTMiddleware guards routes with access-token authentication. Any
// verification failure yields a uniform 401; the user ID and username from
// the claims are placed into the request context for downstream handlers.
func JWTMiddleware(tokens *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, appErr := bearerToken(r)
			if appErr != nil {
				WriteError(w, r, appErr)
				return
			}

			claims, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", nil))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewContextWithUser returns a context carrying an authenticated identity,
// as set by JWTMiddleware.
func NewContextWithUser(ctx context.Context, userID int, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, usernameKey, username)
}

// GetUserIDFromContext retrieves the authenticated user's ID from the
// request context. Returns 0 and false when the middleware did not run.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetUsernameFromContext retrieves the authenticated user's username.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
