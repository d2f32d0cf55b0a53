package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

type ResourceStore interface {
	FindByID(ctx context.Context, id string) (model.Resource, error)
	Create(ctx context.Context, res model.Resource) error
	Update(ctx context.Context, res model.Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.Resource, error)
}

type ResourceService struct {
	store ResourceStore
}

func NewResourceService(store ResourceStore) *ResourceService {
	return &ResourceService{store: store}
}

func (s *ResourceService) Create(ctx context.Context, req model.CreateResourceRequest) (model.Resource, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Resource{}, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if !model.ValidResourceType(req.Type) {
		return model.Resource{}, fmt.Errorf("%w: unknown resource type %q", model.ErrValidation, req.Type)
	}

	now := time.Now().UTC()
	res := model.Resource{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      req.Type,
		Details:   strings.TrimSpace(req.Details),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, res); err != nil {
		return model.Resource{}, err
	}
	return res, nil
}

func (s *ResourceService) Get(ctx context.Context, id string) (model.Resource, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ResourceService) List(ctx context.Context, offset int, limit int) ([]model.Resource, error) {
	return s.store.List(ctx, offset, limit)
}

func (s *ResourceService) Update(ctx context.Context, id string, req model.UpdateResourceRequest) (model.Resource, error) {
	res, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Resource{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.Resource{}, fmt.Errorf("%w: name cannot be empty", model.ErrValidation)
		}
		res.Name = name
	}
	if req.Type != nil {
		if !model.ValidResourceType(*req.Type) {
			return model.Resource{}, fmt.Errorf("%w: unknown resource type %q", model.ErrValidation, *req.Type)
		}
		res.Type = *req.Type
	}
	if req.Details != nil {
		res.Details = strings.TrimSpace(*req.Details)
	}

	res.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, res); err != nil {
		return model.Resource{}, err
	}
	return res, nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
