package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"facility-security-api/internal/model"
)

// AreaRepository persists restricted areas and the area_access join table.
// Membership is always returned as id lists; callers perform their own joined
// fetches when they need full records.
type AreaRepository struct {
	pool *pgxpool.Pool
}

func NewAreaRepository(pool *pgxpool.Pool) *AreaRepository {
	return &AreaRepository{pool: pool}
}

func (r *AreaRepository) FindByID(ctx context.Context, id string) (model.RestrictedArea, error) {
	var a model.RestrictedArea
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, security_level, created_at, updated_at
		 FROM restricted_areas WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Description, &a.SecurityLevel, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RestrictedArea{}, model.ErrAreaNotFound
	}
	if err != nil {
		return model.RestrictedArea{}, fmt.Errorf("find area: %w", err)
	}
	return a, nil
}

func (r *AreaRepository) Create(ctx context.Context, a model.RestrictedArea) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO restricted_areas (id, name, description, security_level, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Name, a.Description, a.SecurityLevel, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

func (r *AreaRepository) Update(ctx context.Context, a model.RestrictedArea) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE restricted_areas
		 SET name = $2, description = $3, security_level = $4, updated_at = $5
		 WHERE id = $1`,
		a.ID, a.Name, a.Description, a.SecurityLevel, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAreaNotFound
	}
	return nil
}

func (r *AreaRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM restricted_areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAreaNotFound
	}
	return nil
}

func (r *AreaRepository) List(ctx context.Context, offset int, limit int) ([]model.RestrictedArea, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, security_level, created_at, updated_at
		 FROM restricted_areas ORDER BY name OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	areas := make([]model.RestrictedArea, 0)
	for rows.Next() {
		var a model.RestrictedArea
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.SecurityLevel, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// GrantAccess is idempotent: granting access twice is not an error.
func (r *AreaRepository) GrantAccess(ctx context.Context, userID string, areaID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO area_access (user_id, area_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, area_id) DO NOTHING`, userID, areaID)
	if err != nil {
		return fmt.Errorf("grant area access: %w", err)
	}
	return nil
}

func (r *AreaRepository) RevokeAccess(ctx context.Context, userID string, areaID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM area_access WHERE user_id = $1 AND area_id = $2`, userID, areaID)
	if err != nil {
		return fmt.Errorf("revoke area access: %w", err)
	}
	return nil
}

func (r *AreaRepository) AreaIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT area_id FROM area_access WHERE user_id = $1 ORDER BY area_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user areas: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan area id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
