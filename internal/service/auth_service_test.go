package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"facility-security-api/internal/model"
	"facility-security-api/internal/repository/repofake"
)

type authFixture struct {
	auth   *AuthService
	users  *repofake.Users
	tokens *repofake.Ledger
	hasher *PasswordHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens := repofake.NewLedger()
	users := repofake.NewUsers(tokens)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	signer := NewTokenSigner("test-secret", 15*time.Minute)

	return &authFixture{
		auth:   NewAuthService(users, tokens, hasher, signer, 7*24*time.Hour),
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

func (f *authFixture) addUser(t *testing.T, username string, password string, role string, active bool) model.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@wayne.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestLoginIssuesPairAndPersistsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "bearer", pair.TokenType)

	record, err := f.tokens.Find(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.False(t, record.Revoked)
	require.True(t, record.Usable(time.Now().UTC()))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	_, unknownErr := f.auth.Login(context.Background(), "nobody", "admin123")
	_, wrongPwErr := f.auth.Login(context.Background(), "admin", "wrong")

	require.True(t, errors.Is(unknownErr, model.ErrInvalidCredentials))
	require.True(t, errors.Is(wrongPwErr, model.ErrInvalidCredentials))
	require.Equal(t, unknownErr.Error(), wrongPwErr.Error())

	// No ledger row may be minted for a failed login.
	require.Equal(t, 0, f.tokens.Count())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "lucius", "fox123", model.RoleManager, false)

	_, err := f.auth.Login(context.Background(), "lucius", "fox123")
	require.True(t, errors.Is(err, model.ErrAccountDisabled))
	require.Equal(t, 0, f.tokens.Count())
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	old, err := f.tokens.Find(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	rotated, err := f.auth.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The replacement expires strictly later than the token it consumed.
	next, err := f.tokens.Find(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
	require.True(t, next.ExpiresAt.After(old.ExpiresAt))

	// The consumed token is revoked but kept on the ledger.
	consumed, err := f.tokens.Find(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, consumed.Revoked)
}

func TestRefreshRejectsReplayedToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	_, err = f.auth.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	_, err = f.auth.Refresh(context.Background(), pair.RefreshToken)
	require.True(t, errors.Is(err, model.ErrInvalidToken))
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Refresh(context.Background(), uuid.NewString())
	require.True(t, errors.Is(err, model.ErrInvalidToken))
}

func TestRefreshDistinguishesExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	stale := model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		CreatedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, f.tokens.Insert(context.Background(), stale))

	_, err := f.auth.Refresh(context.Background(), stale.Token)
	require.True(t, errors.Is(err, model.ErrTokenExpired))
}

func TestRefreshRejectsTokenOfDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	orphan := model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    "gone-" + user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.tokens.Insert(context.Background(), orphan))

	_, err := f.auth.Refresh(context.Background(), orphan.Token)
	require.True(t, errors.Is(err, model.ErrInvalidToken))
}

func TestConcurrentRefreshHasExactlyOneWinner(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.auth.Refresh(context.Background(), pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			require.True(t, errors.Is(err, model.ErrInvalidToken))
		}
	}
	require.Equal(t, 1, winners)
}

func TestLogoutRevokesWithoutIssuing(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(context.Background(), pair.RefreshToken))

	_, err = f.auth.Refresh(context.Background(), pair.RefreshToken)
	require.True(t, errors.Is(err, model.ErrInvalidToken))
}

func TestLogoutUnknownTokenIsNotFound(t *testing.T) {
	f := newAuthFixture(t)

	err := f.auth.Logout(context.Background(), uuid.NewString())
	require.True(t, errors.Is(err, model.ErrTokenNotFound))
}

func TestAuthorizeResolvesLiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	user, err := f.auth.Authorize(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", user.Username)
	require.Equal(t, model.RoleSecurityAdmin, user.Role)
}

func TestAuthorizeRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "admin", "admin123", model.RoleSecurityAdmin, true)

	pair, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	// Deactivate after issuing: the still-valid signature must not be enough.
	user.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), user))

	_, err = f.auth.Authorize(context.Background(), pair.AccessToken)
	require.True(t, errors.Is(err, model.ErrAccountDisabled))
}

func TestAuthorizeRejectsGarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Authorize(context.Background(), "garbage")
	require.True(t, errors.Is(err, model.ErrUnauthenticated))
}
