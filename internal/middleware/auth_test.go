package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"facility-security-api/internal/model"
)

type fakeAuthorizer struct {
	user model.User
	err  error
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ string) (model.User, error) {
	return f.user, f.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingHeader(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	guard.RequireAuth(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	guard.RequireAuth(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{err: model.ErrUnauthenticated})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	guard.RequireAuth(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthDisabledAccount(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{err: model.ErrAccountDisabled})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	guard.RequireAuth(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "ACCOUNT_DISABLED")
}

func TestRequireAuthPutsUserInContext(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{
		user: model.User{Username: "admin", Role: model.RoleSecurityAdmin},
	})

	var seen model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	guard.RequireAuth(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin", seen.Username)
}

func TestRequireRolesExactMatchOnly(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		allowed  []string
		expected int
	}{
		{"employee denied manager route", model.RoleEmployee, []string{model.RoleManager}, http.StatusForbidden},
		{"employee denied admin route", model.RoleEmployee, []string{model.RoleSecurityAdmin}, http.StatusForbidden},
		{"manager does not imply employee", model.RoleManager, []string{model.RoleEmployee}, http.StatusForbidden},
		{"manager allowed manager route", model.RoleManager, []string{model.RoleManager}, http.StatusOK},
		{"admin allowed admin route", model.RoleSecurityAdmin, []string{model.RoleSecurityAdmin}, http.StatusOK},
		{"multiple allowed roles", model.RoleManager, []string{model.RoleManager, model.RoleSecurityAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := NewAuthMiddleware(&fakeAuthorizer{
				user: model.User{Username: "u", Role: tc.role, IsActive: true},
			})

			chain := guard.RequireAuth(guard.RequireRoles(tc.allowed...)(okHandler()))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer token")
			chain.ServeHTTP(rec, req)

			require.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestRequireRolesWithoutAuthContext(t *testing.T) {
	guard := NewAuthMiddleware(&fakeAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	guard.RequireRoles(model.RoleManager)(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
