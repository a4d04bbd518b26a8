// AngelaMos | 2026
// service.go

package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
)

// Service issues, verifies, and consumes single-use typed tokens. Expiry is
// a lazy staleness check at access time; tokens that are never presented
// again simply stay inert in storage.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo Repository, cfg config.TokenConfig) *Service {
	return &Service{
		repo: repo,
		ttl:  cfg.TTL,
		now:  time.Now,
	}
}

func (s *Service) Issue(
	ctx context.Context,
	userID string,
	typ Type,
) (*Token, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("issue token: bad type %q: %w", typ, core.ErrInvalidInput)
	}

	id, err := core.NewTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	token := &Token{
		ID:        id,
		UserID:    userID,
		Type:      typ,
		CreatedAt: s.now(),
		Valid:     true,
	}

	if err := s.repo.Issue(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// Verify checks existence, then validity, then expiry, in that order. An
// expired token that was already consumed reports invalid, not expired:
// that is the more informative state for a caller that raced.
func (s *Service) Verify(
	ctx context.Context,
	id, userID string,
	typ Type,
) (*Token, error) {
	token, err := s.repo.Find(ctx, id, userID, typ)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	if s.now().After(token.ExpiresAt(s.ttl)) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}

	return token, nil
}

// Consume atomically retires the token. A racing duplicate observes
// ErrTokenInvalid; only one caller ever sees success.
func (s *Service) Consume(ctx context.Context, id string) error {
	consumed, err := s.repo.Consume(ctx, id)
	if err != nil {
		return err
	}

	if !consumed {
		return fmt.Errorf("consume token: %w", core.ErrTokenInvalid)
	}

	return nil
}

// Redeem is verify-then-consume for the call sites that need both: verify
// first for a precise user-facing error, then the atomic consume. A consume
// that loses the race downgrades an earlier ok verify to invalid, closing
// the window between two concurrent submissions of the same token.
func (s *Service) Redeem(
	ctx context.Context,
	id, userID string,
	typ Type,
) (*Token, error) {
	token, err := s.Verify(ctx, id, userID, typ)
	if err != nil {
		return nil, err
	}

	if err := s.Consume(ctx, token.ID); err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			return nil, fmt.Errorf("redeem token: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}

	return token, nil
}

func (s *Service) Invalidate(
	ctx context.Context,
	userID string,
	typ Type,
) error {
	return s.repo.InvalidateAllFor(ctx, userID, typ)
}
