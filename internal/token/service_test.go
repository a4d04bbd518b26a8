// AngelaMos | 2026
// service_test.go

package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
)

// fakeRepo mirrors the SQL repository's semantics in memory, including the
// atomic supersede-on-issue and the one-winner consume.
type fakeRepo struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tokens: make(map[string]*Token)}
}

func (r *fakeRepo) Issue(_ context.Context, token *Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.UserID == token.UserID && t.Type == token.Type {
			t.Valid = false
		}
	}

	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeRepo) Find(
	_ context.Context,
	id, userID string,
	typ Type,
) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok || t.UserID != userID || t.Type != typ {
		return nil, core.ErrNotFound
	}

	copied := *t
	return &copied, nil
}

func (r *fakeRepo) Consume(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok || !t.Valid {
		return false, nil
	}

	t.Valid = false
	return true, nil
}

func (r *fakeRepo) InvalidateAllFor(
	_ context.Context,
	userID string,
	typ Type,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.UserID == userID && t.Type == typ {
			t.Valid = false
		}
	}
	return nil
}

func newTestService(repo Repository, at time.Time) *Service {
	svc := NewService(repo, config.TokenConfig{TTL: 2 * time.Hour})
	svc.now = func() time.Time { return at }
	return svc
}

func TestIssueRejectsUnknownType(t *testing.T) {
	svc := newTestService(newFakeRepo(), time.Now())

	_, err := svc.Issue(context.Background(), "u1", Type("PASSWORD_HINT"))
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIssueSupersedesOutstandingToken(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	svc := newTestService(repo, now)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "u1", TypeEmailVerification)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}

	second, err := svc.Issue(ctx, "u1", TypeEmailVerification)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	// The superseded token reports invalid, not expired, even though it is
	// also well within its TTL.
	_, err = svc.Verify(ctx, first.ID, "u1", TypeEmailVerification)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("superseded token: expected ErrTokenInvalid, got %v", err)
	}

	if _, err := svc.Verify(ctx, second.ID, "u1", TypeEmailVerification); err != nil {
		t.Fatalf("fresh token should verify: %v", err)
	}
}

func TestIssueDifferentTypesCoexist(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())
	ctx := context.Background()

	verify, _ := svc.Issue(ctx, "u1", TypeEmailVerification)
	reset, _ := svc.Issue(ctx, "u1", TypeForgotPassword)

	if _, err := svc.Verify(ctx, verify.ID, "u1", TypeEmailVerification); err != nil {
		t.Fatalf("verification token invalidated by reset issue: %v", err)
	}
	if _, err := svc.Verify(ctx, reset.ID, "u1", TypeForgotPassword); err != nil {
		t.Fatalf("reset token should verify: %v", err)
	}
}

func TestVerifyOrdering(t *testing.T) {
	repo := newFakeRepo()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, issued)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, "u1", TypeForgotPassword)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Verify(ctx, "no-such-token", "u1", TypeForgotPassword)
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("wrong user is not found", func(t *testing.T) {
		_, err := svc.Verify(ctx, tok.ID, "u2", TypeForgotPassword)
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("wrong type is not found", func(t *testing.T) {
		_, err := svc.Verify(ctx, tok.ID, "u1", TypeEmailVerification)
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("within ttl verifies", func(t *testing.T) {
		svc.now = func() time.Time { return issued.Add(time.Hour) }
		if _, err := svc.Verify(ctx, tok.ID, "u1", TypeForgotPassword); err != nil {
			t.Fatalf("verify at 1h: %v", err)
		}
	})

	t.Run("past ttl is expired", func(t *testing.T) {
		svc.now = func() time.Time { return issued.Add(2*time.Hour + time.Minute) }
		_, err := svc.Verify(ctx, tok.ID, "u1", TypeForgotPassword)
		if !errors.Is(err, core.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("consumed and expired reports invalid", func(t *testing.T) {
		// Validity is checked before expiry, so the consumed state wins.
		if _, err := repo.Consume(ctx, tok.ID); err != nil {
			t.Fatalf("consume: %v", err)
		}
		svc.now = func() time.Time { return issued.Add(3 * time.Hour) }

		_, err := svc.Verify(ctx, tok.ID, "u1", TypeForgotPassword)
		if !errors.Is(err, core.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})
}

func TestRedeemTimeline(t *testing.T) {
	repo := newFakeRepo()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, issued)
	ctx := context.Background()

	tok, err := svc.Issue(ctx, "u1", TypeDeleteAccount)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// First presentation, ten minutes in: succeeds and retires the token.
	svc.now = func() time.Time { return issued.Add(10 * time.Minute) }
	if _, err := svc.Redeem(ctx, tok.ID, "u1", TypeDeleteAccount); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	// Second presentation ten minutes later: invalid, not expired.
	svc.now = func() time.Time { return issued.Add(20 * time.Minute) }
	_, err = svc.Redeem(ctx, tok.ID, "u1", TypeDeleteAccount)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("replay: expected ErrTokenInvalid, got %v", err)
	}

	// Long after the TTL the consumed state still wins.
	svc.now = func() time.Time { return issued.Add(3 * time.Hour) }
	_, err = svc.Redeem(ctx, tok.ID, "u1", TypeDeleteAccount)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("late replay: expected ErrTokenInvalid, got %v", err)
	}
}

func TestConcurrentConsumeOneWinner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())
	ctx := context.Background()

	tok, err := svc.Issue(ctx, "u1", TypeForgotPassword)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Consume(ctx, tok.ID)
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else if !errors.Is(err, core.ErrTokenInvalid) {
			t.Fatalf("unexpected consume error: %v", err)
		}
	}

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestInvalidateAllFor(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())
	ctx := context.Background()

	tok, _ := svc.Issue(ctx, "u1", TypeEmailVerification)
	other, _ := svc.Issue(ctx, "u2", TypeEmailVerification)

	if err := svc.Invalidate(ctx, "u1", TypeEmailVerification); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, err := svc.Verify(ctx, tok.ID, "u1", TypeEmailVerification); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	// Another user's tokens are untouched.
	if _, err := svc.Verify(ctx, other.ID, "u2", TypeEmailVerification); err != nil {
		t.Fatalf("other user's token should verify: %v", err)
	}
}
