// AngelaMos | 2026
// repository.go

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindBySID(ctx context.Context, sid string) (*Session, error)
	Touch(ctx context.Context, sid string) error
	Delete(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, uid string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (sid, uid, login_time, last_active)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		session.SID,
		session.UID,
		session.LoginTime,
		session.LastActive,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindBySID(
	ctx context.Context,
	sid string,
) (*Session, error) {
	query := `
		SELECT sid, uid, login_time, last_active
		FROM sessions
		WHERE sid = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

// Touch refreshes last_active. Concurrent requests on the same session may
// race here; last-write-wins is fine at idle-timeout granularity.
func (r *repository) Touch(ctx context.Context, sid string) error {
	query := `
		UPDATE sessions
		SET last_active = NOW()
		WHERE sid = $1`

	_, err := r.db.ExecContext(ctx, query, sid)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, sid string) error {
	query := `DELETE FROM sessions WHERE sid = $1`

	_, err := r.db.ExecContext(ctx, query, sid)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every session for a user. Called after a password
// reset and when an account is deleted.
func (r *repository) DeleteAllForUser(ctx context.Context, uid string) error {
	query := `DELETE FROM sessions WHERE uid = $1`

	_, err := r.db.ExecContext(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	return nil
}
