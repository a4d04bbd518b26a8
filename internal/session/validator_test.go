// AngelaMos | 2026
// validator_test.go

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/user"
)

type fakeSessions struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	touched   []string
	deleteErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*Session)}
}

func (f *fakeSessions) Create(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.sessions[s.SID] = &copied
	return nil
}

func (f *fakeSessions) FindBySID(_ context.Context, sid string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sid]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessions) Touch(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, sid)
	if s, ok := f.sessions[sid]; ok {
		s.LastActive = time.Now()
	}
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, sid)
	return nil
}

func (f *fakeSessions) DeleteAllForUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sid, s := range f.sessions {
		if s.UID != nil && *s.UID == uid {
			delete(f.sessions, sid)
		}
	}
	return nil
}

func (f *fakeSessions) has(sid string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[sid]
	return ok
}

type fakeUsers struct {
	users map[string]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

var sessionCfg = config.SessionConfig{
	CookieName:      "sid",
	IdleTimeout:     3 * time.Hour,
	AbsoluteTimeout: 48 * time.Hour,
}

func seedSession(f *fakeSessions, sid, uid string, login, active time.Time) {
	_ = f.Create(context.Background(), &Session{
		SID:        sid,
		UID:        &uid,
		LoginTime:  login,
		LastActive: active,
	})
}

func TestValidateEmptySIDIsAnonymous(t *testing.T) {
	v := NewValidator(newFakeSessions(), &fakeUsers{}, sessionCfg)

	res := v.Validate(context.Background(), "")
	if res.Outcome != OutcomeAnonymous {
		t.Fatalf("expected anonymous, got %v", res.Outcome)
	}
}

func TestValidateUnknownSIDRejectsAndClearsCookie(t *testing.T) {
	v := NewValidator(newFakeSessions(), &fakeUsers{}, sessionCfg)

	res := v.Validate(context.Background(), "forged")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if !res.ClearCookie {
		t.Fatal("expected cookie clear on unknown sid")
	}
	if res.Denial.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Denial.Status)
	}
}

func TestValidateAnonymousSessionPassesThrough(t *testing.T) {
	sessions := newFakeSessions()
	_ = sessions.Create(context.Background(), &Session{
		SID:        "anon",
		LoginTime:  time.Now(),
		LastActive: time.Now(),
	})
	v := NewValidator(sessions, &fakeUsers{}, sessionCfg)

	res := v.Validate(context.Background(), "anon")
	if res.Outcome != OutcomeAnonymous {
		t.Fatalf("expected anonymous, got %v", res.Outcome)
	}
}

func TestValidateIdleTimeout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1", Verified: true},
	}}
	seedSession(sessions, "s1", "u1", now.Add(-5*time.Hour), now.Add(-3*time.Hour))

	v := NewValidator(sessions, users, sessionCfg)
	v.now = func() time.Time { return now }

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if !errors.Is(res.Denial.Err, core.ErrSessionTimeout) {
		t.Fatalf("expected session timeout, got %v", res.Denial.Err)
	}
	if sessions.has("s1") {
		t.Fatal("timed-out session must be destroyed")
	}
}

func TestValidateAbsoluteTimeoutBeatsRecentActivity(t *testing.T) {
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1", Verified: true},
	}}
	// Active one minute ago, but logged in 48 hours ago: the absolute
	// timeout fires regardless of activity.
	seedSession(sessions, "s1", "u1", now.Add(-48*time.Hour), now.Add(-time.Minute))

	v := NewValidator(sessions, users, sessionCfg)
	v.now = func() time.Time { return now }

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if !errors.Is(res.Denial.Err, core.ErrSessionTimeout) {
		t.Fatalf("expected session timeout, got %v", res.Denial.Err)
	}
	if sessions.has("s1") {
		t.Fatal("expired session must be destroyed")
	}
}

func TestValidateHappyPathTouchesSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1", Email: "a@b.co", Verified: true},
	}}
	seedSession(sessions, "s1", "u1", now.Add(-time.Hour), now.Add(-time.Minute))

	v := NewValidator(sessions, users, sessionCfg)
	v.now = func() time.Time { return now }

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeAuthenticated {
		t.Fatalf("expected authenticated, got %v (denial %v)", res.Outcome, res.Denial)
	}
	if res.Actor.ID != "u1" || res.Actor.SessionID != "s1" {
		t.Fatalf("actor not populated: %+v", res.Actor)
	}
	if len(sessions.touched) != 1 || sessions.touched[0] != "s1" {
		t.Fatalf("expected one touch of s1, got %v", sessions.touched)
	}
}

func TestValidateDeletedUserRejected(t *testing.T) {
	now := time.Now()
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1", Deleted: true},
	}}
	seedSession(sessions, "s1", "u1", now, now)

	v := NewValidator(sessions, users, sessionCfg)

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if res.Denial.Message != core.MsgAccountDeleted {
		t.Fatalf("expected %q, got %q", core.MsgAccountDeleted, res.Denial.Message)
	}
	if sessions.has("s1") {
		t.Fatal("session for deleted user must be destroyed")
	}
}

func TestValidateBannedWinsOverDeleted(t *testing.T) {
	now := time.Now()
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1", Banned: true, Deleted: true},
	}}
	seedSession(sessions, "s1", "u1", now, now)

	v := NewValidator(sessions, users, sessionCfg)

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if res.Denial.Message != core.MsgAccountBanned {
		t.Fatalf("banned must take precedence: got %q", res.Denial.Message)
	}
}

func TestValidateMissingUserRejected(t *testing.T) {
	now := time.Now()
	sessions := newFakeSessions()
	seedSession(sessions, "s1", "gone", now, now)

	v := NewValidator(sessions, &fakeUsers{}, sessionCfg)

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	if res.Denial.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Denial.Status)
	}
}

func TestValidateDestroyFailureReportsInternal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessions()
	users := &fakeUsers{users: map[string]*user.User{
		"u1": {ID: "u1"},
	}}
	seedSession(sessions, "s1", "u1", now.Add(-49*time.Hour), now)
	sessions.deleteErr = errors.New("connection reset")

	v := NewValidator(sessions, users, sessionCfg)
	v.now = func() time.Time { return now }

	res := v.Validate(context.Background(), "s1")
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %v", res.Outcome)
	}
	// The timeout denial must not leak when destruction failed; the caller
	// sees an internal error and the session stays resolvable server-side.
	if res.Denial.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Denial.Status)
	}
	if res.ClearCookie {
		t.Fatal("cookie must not be cleared when destruction failed")
	}
}
