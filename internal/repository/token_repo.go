package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"facility-security-api/internal/model"
)

// TokenRepository is the refresh-token ledger. Rows are never deleted by the
// auth flow; revocation flips the monotonic revoked flag and the row stays as
// an audit trail. Rows disappear only when their owning user is deleted.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Insert(ctx context.Context, t model.RefreshToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.Token, t.UserID, t.ExpiresAt, t.Revoked, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Find(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.pool.QueryRow(ctx,
		`SELECT token, user_id, expires_at, revoked, created_at
		 FROM refresh_tokens WHERE token = $1`, token).
		Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshToken{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("find refresh token: %w", err)
	}
	return t, nil
}

// Revoke marks the token revoked. It reports ErrTokenNotFound for unknown
// tokens and is otherwise idempotent; callers decide whether "already revoked"
// matters.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenNotFound
	}
	return nil
}

// Rotate atomically revokes old and inserts next in a single transaction.
// The WHERE revoked = FALSE clause is the compare-and-swap: when two requests
// race with the same token, the loser updates zero rows and gets
// ErrTokenRevoked before anything is inserted. A transaction abort leaves the
// old token untouched and still active.
func (r *TokenRepository) Rotate(ctx context.Context, old string, next model.RefreshToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`, old)
	if err != nil {
		return fmt.Errorf("revoke rotated token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		next.Token, next.UserID, next.ExpiresAt, next.Revoked, next.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rotated token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}
	return nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}
