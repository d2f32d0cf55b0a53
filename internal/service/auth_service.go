package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

// UserStore is the persistence collaborator for user records.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// TokenStore is the refresh-token ledger. Rotate must revoke the old token and
// insert the replacement atomically: when two calls race on the same token,
// exactly one may succeed and the other must see ErrTokenRevoked.
type TokenStore interface {
	Insert(ctx context.Context, t model.RefreshToken) error
	Find(ctx context.Context, token string) (model.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	Rotate(ctx context.Context, old string, next model.RefreshToken) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthService orchestrates the session lifecycle: login, refresh rotation,
// logout, and access-token authorization for the middleware guard.
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	hasher     *PasswordHasher
	signer     *TokenSigner
	refreshTTL time.Duration
}

func NewAuthService(users UserStore, tokens TokenStore, hasher *PasswordHasher, signer *TokenSigner, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		signer:     signer,
		refreshTTL: refreshTTL,
	}
}

// Login verifies the credentials and issues an access/refresh pair. Unknown
// username and wrong password surface the same error so responses cannot be
// used to enumerate usernames.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Burn a comparison anyway so the miss costs about as much as a hit.
		s.hasher.Verify(password, "")
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.TokenPair{}, model.ErrAccountDisabled
	}

	refresh := s.newRefreshToken(user.ID)
	if err := s.tokens.Insert(ctx, refresh); err != nil {
		return model.TokenPair{}, err
	}

	return s.pair(user, refresh.Token)
}

// Refresh exchanges a usable refresh token for a new pair, revoking the
// presented token in the same transaction that mints its replacement.
func (s *AuthService) Refresh(ctx context.Context, token string) (model.TokenPair, error) {
	record, err := s.tokens.Find(ctx, token)
	if err != nil {
		return model.TokenPair{}, model.ErrInvalidToken
	}
	if record.Revoked {
		return model.TokenPair{}, model.ErrInvalidToken
	}
	if !time.Now().UTC().Before(record.ExpiresAt) {
		return model.TokenPair{}, model.ErrTokenExpired
	}

	// A ledger row pointing at a deleted user is a data-integrity problem;
	// treat it like any other unusable token.
	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return model.TokenPair{}, model.ErrInvalidToken
	}
	if !user.IsActive {
		return model.TokenPair{}, model.ErrAccountDisabled
	}

	next := s.newRefreshToken(user.ID)
	if err := s.tokens.Rotate(ctx, token, next); err != nil {
		// Lost the race against a concurrent rotation or logout.
		return model.TokenPair{}, model.ErrInvalidToken
	}

	return s.pair(user, next.Token)
}

// Logout revokes the refresh token without issuing anything.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authorize resolves a bearer access token to a live user record. A valid
// signature is not enough: the claimed user must still exist and be active.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := s.signer.Verify(accessToken)
	if err != nil {
		return model.User{}, model.ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		return model.User{}, model.ErrUnauthenticated
	}
	if !user.IsActive {
		return model.User{}, model.ErrAccountDisabled
	}

	return user, nil
}

func (s *AuthService) newRefreshToken(userID string) model.RefreshToken {
	now := time.Now().UTC()
	return model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
}

func (s *AuthService) pair(user model.User, refreshToken string) (model.TokenPair, error) {
	access, err := s.signer.Issue(user.Username, user.Role)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
