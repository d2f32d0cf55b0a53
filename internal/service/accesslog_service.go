package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

type AccessLogStore interface {
	Create(ctx context.Context, entry model.AccessLog) error
	FindByID(ctx context.Context, id string) (model.AccessLog, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.AccessLog, error)
	ListForUser(ctx context.Context, userID string, offset int, limit int) ([]model.AccessLog, error)
}

type AccessLogService struct {
	logs  AccessLogStore
	users UserStore
	areas AreaStore
}

func NewAccessLogService(logs AccessLogStore, users UserStore, areas AreaStore) *AccessLogService {
	return &AccessLogService{logs: logs, users: users, areas: areas}
}

func (s *AccessLogService) Create(ctx context.Context, req model.CreateAccessLogRequest) (model.AccessLog, error) {
	if !model.ValidAccessStatus(req.Status) {
		return model.AccessLog{}, fmt.Errorf("%w: unknown access status %q", model.ErrValidation, req.Status)
	}
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		return model.AccessLog{}, err
	}
	if _, err := s.areas.FindByID(ctx, req.AreaID); err != nil {
		return model.AccessLog{}, err
	}

	entry := model.AccessLog{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		AreaID:     req.AreaID,
		Status:     req.Status,
		AccessTime: time.Now().UTC(),
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return model.AccessLog{}, err
	}
	return entry, nil
}

func (s *AccessLogService) Get(ctx context.Context, id string) (model.AccessLog, error) {
	return s.logs.FindByID(ctx, id)
}

func (s *AccessLogService) Delete(ctx context.Context, id string) error {
	return s.logs.Delete(ctx, id)
}

func (s *AccessLogService) List(ctx context.Context, offset int, limit int) ([]model.AccessLog, error) {
	return s.logs.List(ctx, offset, limit)
}

func (s *AccessLogService) ListForUser(ctx context.Context, userID string, offset int, limit int) ([]model.AccessLog, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.logs.ListForUser(ctx, userID, offset, limit)
}
