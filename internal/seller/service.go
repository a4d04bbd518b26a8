// AngelaMos | 2026
// service.go

package seller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/marketplace-api/internal/core"
)

var ErrAlreadyApplied = errors.New("seller application already exists")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Apply files a seller application for the user. One application per account;
// the unique constraint on user_id backs this up against double submits.
func (s *Service) Apply(
	ctx context.Context,
	userID string,
	req ApplyRequest,
) (*Seller, error) {
	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("apply: %w", ErrAlreadyApplied)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("apply: %w", err)
	}

	seller := &Seller{
		ID:               uuid.New().String(),
		UserID:           userID,
		ApprovalDocument: req.ApprovalDocument,
	}

	if err := s.repo.Create(ctx, seller); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("apply: %w", ErrAlreadyApplied)
		}
		return nil, err
	}

	return seller, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Seller, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*Seller, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Approve(ctx context.Context, id string) (*Seller, error) {
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Deny removes the application entirely so the user can reapply with a
// better document later.
func (s *Service) Deny(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListSellersParams,
) ([]Seller, int, error) {
	return s.repo.List(ctx, params)
}
