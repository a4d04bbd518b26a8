// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Reactivate(ctx context.Context, id, name, passwordHash string) error
	SetVerified(ctx context.Context, id string) error
	SetBanned(ctx context.Context, id string, banned bool) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

const userColumns = `
	u.id, u.email, u.password_hash, u.name, u.phone_number, u.address,
	u.verified, u.banned, u.deleted, u.created_at, u.updated_at,
	b.id AS buyer_id, s.id AS seller_id, s.approved AS seller_approved,
	a.id AS admin_id`

const userJoins = `
	FROM users u
	LEFT JOIN buyers b ON b.user_id = u.id
	LEFT JOIN sellers s ON s.user_id = u.id
	LEFT JOIN admins a ON a.user_id = u.id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the user row and its buyer profile in one transaction;
// every registered account starts as a buyer.
func (r *repository) Create(ctx context.Context, user *User) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userQuery := `
			INSERT INTO users (id, email, password_hash, name)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, user, userQuery,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.Name,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		buyerQuery := `
			INSERT INTO buyers (id, user_id)
			VALUES (gen_random_uuid(), $1)
			RETURNING id`

		var buyerID string
		if err := tx.GetContext(ctx, &buyerID, buyerQuery, user.ID); err != nil {
			return fmt.Errorf("insert buyer profile: %w", err)
		}
		user.BuyerID = &buyerID

		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns the user regardless of deleted/banned state; the caller
// decides what those flags mean for its operation.
func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + userJoins + ` WHERE u.id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// GetByEmail also returns soft-deleted rows: registration needs them for the
// reactivation path and login needs them for precise error states.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + userJoins + ` WHERE lower(u.email) = lower($1)`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, phone_number = $3, address = $4, updated_at = NOW()
		WHERE id = $1 AND deleted = false
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.PhoneNumber,
		user.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted = false`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

// Reactivate revives a soft-deleted, non-banned account in place, keeping its
// id and history. The deleted/banned guards in the WHERE clause make the
// transition race-safe against a concurrent ban.
func (r *repository) Reactivate(
	ctx context.Context,
	id, name, passwordHash string,
) error {
	query := `
		UPDATE users
		SET name = $2, password_hash = $3, deleted = false, verified = false,
		    updated_at = NOW()
		WHERE id = $1 AND deleted = true AND banned = false`

	result, err := r.db.ExecContext(ctx, query, id, name, passwordHash)
	if err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("reactivate user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetVerified(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET verified = true, updated_at = NOW()
		WHERE id = $1 AND deleted = false`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set verified: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetBanned(
	ctx context.Context,
	id string,
	banned bool,
) error {
	query := `
		UPDATE users
		SET banned = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set banned: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted = true, updated_at = NOW()
		WHERE id = $1 AND deleted = false`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "u.deleted = false")

	if params.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("u.verified = $%d", argIdx))
		args = append(args, *params.Verified)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(u.email ILIKE $%d OR u.name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users u WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, userJoins, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
