package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"facility-security-api/internal/model"
)

type AccessLogRepository struct {
	pool *pgxpool.Pool
}

func NewAccessLogRepository(pool *pgxpool.Pool) *AccessLogRepository {
	return &AccessLogRepository{pool: pool}
}

func (r *AccessLogRepository) Create(ctx context.Context, entry model.AccessLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO access_logs (id, user_id, area_id, status, access_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.AreaID, entry.Status, entry.AccessTime)
	if err != nil {
		return fmt.Errorf("create access log: %w", err)
	}
	return nil
}

func (r *AccessLogRepository) FindByID(ctx context.Context, id string) (model.AccessLog, error) {
	var entry model.AccessLog
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, area_id, status, access_time FROM access_logs WHERE id = $1`, id).
		Scan(&entry.ID, &entry.UserID, &entry.AreaID, &entry.Status, &entry.AccessTime)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.AccessLog{}, model.ErrAccessLogNotFound
	}
	if err != nil {
		return model.AccessLog{}, fmt.Errorf("find access log: %w", err)
	}
	return entry, nil
}

func (r *AccessLogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete access log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccessLogNotFound
	}
	return nil
}

func (r *AccessLogRepository) List(ctx context.Context, offset int, limit int) ([]model.AccessLog, error) {
	return r.query(ctx,
		`SELECT id, user_id, area_id, status, access_time
		 FROM access_logs ORDER BY access_time DESC OFFSET $1 LIMIT $2`, offset, limit)
}

func (r *AccessLogRepository) ListForUser(ctx context.Context, userID string, offset int, limit int) ([]model.AccessLog, error) {
	return r.query(ctx,
		`SELECT id, user_id, area_id, status, access_time
		 FROM access_logs WHERE user_id = $1
		 ORDER BY access_time DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
}

func (r *AccessLogRepository) query(ctx context.Context, sql string, args ...any) ([]model.AccessLog, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AccessLog, 0)
	for rows.Next() {
		var entry model.AccessLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.AreaID, &entry.Status, &entry.AccessTime); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
