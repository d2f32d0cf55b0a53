package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

type AreaStore interface {
	AreaAccessStore
	FindByID(ctx context.Context, id string) (model.RestrictedArea, error)
	Create(ctx context.Context, a model.RestrictedArea) error
	Update(ctx context.Context, a model.RestrictedArea) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.RestrictedArea, error)
}

type AreaService struct {
	areas AreaStore
	users UserStore
}

func NewAreaService(areas AreaStore, users UserStore) *AreaService {
	return &AreaService{areas: areas, users: users}
}

func (s *AreaService) Create(ctx context.Context, req model.CreateAreaRequest) (model.RestrictedArea, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.RestrictedArea{}, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if req.SecurityLevel < 1 || req.SecurityLevel > 5 {
		return model.RestrictedArea{}, fmt.Errorf("%w: security_level must be between 1 and 5", model.ErrValidation)
	}

	now := time.Now().UTC()
	area := model.RestrictedArea{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		SecurityLevel: req.SecurityLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.areas.Create(ctx, area); err != nil {
		return model.RestrictedArea{}, err
	}
	return area, nil
}

func (s *AreaService) Get(ctx context.Context, id string) (model.RestrictedArea, error) {
	return s.areas.FindByID(ctx, id)
}

func (s *AreaService) List(ctx context.Context, offset int, limit int) ([]model.RestrictedArea, error) {
	return s.areas.List(ctx, offset, limit)
}

func (s *AreaService) Update(ctx context.Context, id string, req model.UpdateAreaRequest) (model.RestrictedArea, error) {
	area, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return model.RestrictedArea{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.RestrictedArea{}, fmt.Errorf("%w: name cannot be empty", model.ErrValidation)
		}
		area.Name = name
	}
	if req.Description != nil {
		area.Description = strings.TrimSpace(*req.Description)
	}
	if req.SecurityLevel != nil {
		if *req.SecurityLevel < 1 || *req.SecurityLevel > 5 {
			return model.RestrictedArea{}, fmt.Errorf("%w: security_level must be between 1 and 5", model.ErrValidation)
		}
		area.SecurityLevel = *req.SecurityLevel
	}

	area.UpdatedAt = time.Now().UTC()
	if err := s.areas.Update(ctx, area); err != nil {
		return model.RestrictedArea{}, err
	}
	return area, nil
}

func (s *AreaService) Delete(ctx context.Context, id string) error {
	return s.areas.Delete(ctx, id)
}

// GrantAccess records that the user may enter the area. Both sides must exist.
func (s *AreaService) GrantAccess(ctx context.Context, areaID string, userID string) error {
	if _, err := s.areas.FindByID(ctx, areaID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.areas.GrantAccess(ctx, userID, areaID)
}

func (s *AreaService) RevokeAccess(ctx context.Context, areaID string, userID string) error {
	if _, err := s.areas.FindByID(ctx, areaID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.areas.RevokeAccess(ctx, userID, areaID)
}
