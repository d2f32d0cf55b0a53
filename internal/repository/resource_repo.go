package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"facility-security-api/internal/model"
)

type ResourceRepository struct {
	pool *pgxpool.Pool
}

func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (model.Resource, error) {
	var res model.Resource
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, type, details, created_at, updated_at
		 FROM resources WHERE id = $1`, id).
		Scan(&res.ID, &res.Name, &res.Type, &res.Details, &res.CreatedAt, &res.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Resource{}, model.ErrResourceNotFound
	}
	if err != nil {
		return model.Resource{}, fmt.Errorf("find resource: %w", err)
	}
	return res, nil
}

func (r *ResourceRepository) Create(ctx context.Context, res model.Resource) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO resources (id, name, type, details, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.Name, res.Type, res.Details, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

func (r *ResourceRepository) Update(ctx context.Context, res model.Resource) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resources SET name = $2, type = $3, details = $4, updated_at = $5 WHERE id = $1`,
		res.ID, res.Name, res.Type, res.Details, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepository) List(ctx context.Context, offset int, limit int) ([]model.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, details, created_at, updated_at
		 FROM resources ORDER BY name OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]model.Resource, 0)
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Type, &res.Details, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}
