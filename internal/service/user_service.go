package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

type AreaAccessStore interface {
	GrantAccess(ctx context.Context, userID string, areaID string) error
	RevokeAccess(ctx context.Context, userID string, areaID string) error
	AreaIDsForUser(ctx context.Context, userID string) ([]string, error)
}

type UserService struct {
	users  UserStore
	access AreaAccessStore
	hasher *PasswordHasher
}

func NewUserService(users UserStore, access AreaAccessStore, hasher *PasswordHasher) *UserService {
	return &UserService{users: users, access: access, hasher: hasher}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.UserProfile, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return model.UserProfile{}, fmt.Errorf("%w: username, email and password are required", model.ErrValidation)
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.RoleEmployee
	}
	if !model.ValidRole(role) {
		return model.UserProfile{}, fmt.Errorf("%w: unknown role %q", model.ErrValidation, role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserProfile{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.UserProfile{}, err
	}

	return user.Profile(), nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserProfile{}, err
	}
	return user.Profile(), nil
}

func (s *UserService) List(ctx context.Context, offset int, limit int) ([]model.UserProfile, error) {
	users, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Update applies the request field by field onto the stored record. Only the
// fields enumerated here can change; there is no apply-everything path.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserProfile{}, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return model.UserProfile{}, fmt.Errorf("%w: username cannot be empty", model.ErrValidation)
		}
		user.Username = username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return model.UserProfile{}, fmt.Errorf("%w: email cannot be empty", model.ErrValidation)
		}
		user.Email = email
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return model.UserProfile{}, fmt.Errorf("%w: unknown role %q", model.ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return model.UserProfile{}, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.UserProfile{}, err
	}

	return user.Profile(), nil
}

// Delete removes a user. Operators cannot delete their own account; the
// store removes the user's refresh tokens in the same transaction.
func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", model.ErrValidation)
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) AreaIDs(ctx context.Context, userID string) ([]string, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.access.AreaIDsForUser(ctx, userID)
}
