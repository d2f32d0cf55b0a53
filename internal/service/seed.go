package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"facility-security-api/internal/model"
)

// SeedAdmin creates the initial security_admin account on first boot if no
// users exist, so a fresh deployment can always be logged into.
func SeedAdmin(ctx context.Context, users UserStore, hasher *PasswordHasher, password string) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("check user count: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now().UTC()
	admin := model.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@wayne.com",
		FullName:     "Bruce Wayne",
		PasswordHash: hash,
		Role:         model.RoleSecurityAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	slog.Warn("seed admin account created",
		"username", "admin",
		"action_required", "change the default password immediately")
	return nil
}
