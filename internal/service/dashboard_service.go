package service

import (
	"context"

	"facility-security-api/internal/model"
)

type StatsStore interface {
	Stats(ctx context.Context) (model.DashboardStats, error)
}

type DashboardService struct {
	store StatsStore
}

func NewDashboardService(store StatsStore) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) Stats(ctx context.Context) (model.DashboardStats, error) {
	return s.store.Stats(ctx)
}
