package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"facility-security-api/internal/model"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

func (r *DashboardRepository) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM resources),
			(SELECT COUNT(*) FROM restricted_areas),
			(SELECT COUNT(*) FROM access_logs),
			(SELECT COUNT(*) FROM access_logs WHERE status = 'granted'),
			(SELECT COUNT(*) FROM access_logs WHERE status = 'denied')
	`).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.TotalResources,
		&stats.TotalAreas, &stats.TotalAccessLogs, &stats.AccessGranted, &stats.AccessDenied)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
