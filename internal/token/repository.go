// AngelaMos | 2026
// repository.go

package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/marketplace-api/internal/core"
)

type Repository interface {
	// Issue invalidates every valid token of the same (userId, type) and
	// inserts the new one, atomically: a stale outstanding token can never
	// be used after a newer one exists.
	Issue(ctx context.Context, token *Token) error
	Find(ctx context.Context, id, userID string, typ Type) (*Token, error)
	// Consume flips valid to false if and only if it is still true. The
	// return value distinguishes a first consumption from a racing
	// duplicate: exactly one concurrent caller sees true.
	Consume(ctx context.Context, id string) (bool, error)
	InvalidateAllFor(ctx context.Context, userID string, typ Type) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Issue(ctx context.Context, token *Token) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		supersede := `
			UPDATE tokens
			SET valid = false
			WHERE user_id = $1 AND type = $2 AND valid = true`

		if _, err := tx.ExecContext(ctx, supersede, token.UserID, token.Type); err != nil {
			return fmt.Errorf("supersede tokens: %w", err)
		}

		insert := `
			INSERT INTO tokens (id, user_id, type, created_at, valid)
			VALUES ($1, $2, $3, $4, true)`

		if _, err := tx.ExecContext(ctx, insert,
			token.ID,
			token.UserID,
			token.Type,
			token.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert token: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	return nil
}

func (r *repository) Find(
	ctx context.Context,
	id, userID string,
	typ Type,
) (*Token, error) {
	query := `
		SELECT id, user_id, type, created_at, valid
		FROM tokens
		WHERE id = $1 AND user_id = $2 AND type = $3`

	var token Token
	err := r.db.GetContext(ctx, &token, query, id, userID, typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &token, nil
}

func (r *repository) Consume(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE tokens
		SET valid = false
		WHERE id = $1 AND valid = true`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("consume token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume token: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) InvalidateAllFor(
	ctx context.Context,
	userID string,
	typ Type,
) error {
	query := `
		UPDATE tokens
		SET valid = false
		WHERE user_id = $1 AND type = $2 AND valid = true`

	_, err := r.db.ExecContext(ctx, query, userID, typ)
	if err != nil {
		return fmt.Errorf("invalidate tokens: %w", err)
	}

	return nil
}
