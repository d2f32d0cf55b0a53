package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"facility-security-api/internal/model"
)

// authorizer resolves an access token to a live user record. Implemented by
// service.AuthService.
type authorizer interface {
	Authorize(ctx context.Context, accessToken string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

// AuthMiddleware is the access guard: it verifies the bearer token, resolves
// the claimed identity against the user store, and enforces per-route role
// requirements before any protected handler runs.
type AuthMiddleware struct {
	auth authorizer
}

func NewAuthMiddleware(auth authorizer) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		token := strings.TrimSpace(header[7:])
		user, err := m.auth.Authorize(r.Context(), token)
		if err != nil {
			if errors.Is(err, model.ErrAccountDisabled) {
				writeGuardError(w, http.StatusUnauthorized, "ACCOUNT_DISABLED", "account is disabled")
				return
			}
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles allows only the listed roles through. Comparison is exact
// string equality; no role implies another.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if _, allowed := roleSet[user.Role]; !allowed {
				writeGuardError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func writeGuardError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: code, Message: message},
	})
}
