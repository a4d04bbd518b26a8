// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/marketplace-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(email))
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*User, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Reactivate revives a soft-deleted non-banned account under its original id,
// with a fresh name and password and verified reset to false.
func (s *Service) Reactivate(
	ctx context.Context,
	id, name, passwordHash string,
) (*User, error) {
	if err := s.repo.Reactivate(ctx, id, name, passwordHash); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) SetVerified(ctx context.Context, id string) error {
	return s.repo.SetVerified(ctx, id)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Deleted {
		return nil, fmt.Errorf("update profile: %w", core.ErrNotFound)
	}

	user.Name = req.Name
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Restrict bans an account. Admin accounts can never be banned, not even by
// another admin.
func (s *Service) Restrict(ctx context.Context, targetID string) error {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("admin accounts cannot be banned: %w", core.ErrForbidden)
	}

	return s.repo.SetBanned(ctx, targetID, true)
}

func (s *Service) Unrestrict(ctx context.Context, targetID string) error {
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return err
	}

	return s.repo.SetBanned(ctx, targetID, false)
}

// Delete soft-deletes an account. Admin accounts can never be deleted.
func (s *Service) Delete(ctx context.Context, targetID string) error {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("admin accounts cannot be deleted: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, targetID)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}
