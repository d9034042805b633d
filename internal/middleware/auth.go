package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/melodia-music/melodia-backend/internal/services"
)

type contextKey string

const (
	// UserIDKey holds the authenticated user's ID ("" for guest tokens).
	UserIDKey contextKey = "user_id"
	// RoleKey holds the token's role claim.
	RoleKey contextKey = "role"
)

// ExtractBearerToken pulls the token out of an Authorization header value.
func ExtractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// Auth returns middleware requiring a valid bearer token whose role is in
// allowedRoles. Expired tokens get a distinct message so clients know to
// re-authenticate or request a fresh guest token.
func Auth(tokens *services.TokenIssuer, allowedRoles ...string) func(http.Handler) http.Handler {
	roles := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		roles[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "Authorization token is required")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					unauthorized(w, "Token has expired, please log in again")
				} else {
					unauthorized(w, "Invalid authorization token")
				}
				return
			}

			if _, ok := roles[claims.Role]; !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success":false,"message":"You do not have permission to access this resource"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// CallerID returns the authenticated user ID from the request context.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// CallerRole returns the authenticated role from the request context.
func CallerRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}
