// AngelaMos | 2026
// repository.go

package seller

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
	Create(ctx context.Context, seller *Seller) error
	GetByID(ctx context.Context, id string) (*Seller, error)
	GetByUserID(ctx context.Context, userID string) (*Seller, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListSellersParams) ([]Seller, int, error)
}

const sellerColumns = `
	s.id, s.user_id, s.approved, s.approval_document,
	s.created_at, s.updated_at,
	u.name AS user_name, u.email AS user_email`

const sellerJoins = `
	FROM sellers s
	JOIN users u ON u.id = s.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, seller *Seller) error {
	query := `
		INSERT INTO sellers (id, user_id, approval_document)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, seller, query,
		seller.ID,
		seller.UserID,
		seller.ApprovalDocument,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create seller: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create seller: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Seller, error) {
	query := `SELECT ` + sellerColumns + sellerJoins + ` WHERE s.id = $1`

	var seller Seller
	err := r.db.GetContext(ctx, &seller, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get seller: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}

	return &seller, nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Seller, error) {
	query := `SELECT ` + sellerColumns + sellerJoins + ` WHERE s.user_id = $1`

	var seller Seller
	err := r.db.GetContext(ctx, &seller, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get seller by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get seller by user: %w", err)
	}

	return &seller, nil
}

func (r *repository) SetApproved(
	ctx context.Context,
	id string,
	approved bool,
) error {
	query := `
		UPDATE sellers
		SET approved = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, approved)
	if err != nil {
		return fmt.Errorf("set approved: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set approved: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set approved: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sellers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete seller: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListSellersParams,
) ([]Seller, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "u.deleted = false")

	if params.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("s.approved = $%d", argIdx))
		args = append(args, *params.Approved)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM sellers s JOIN users u ON u.id = s.user_id WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sellers: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`,
		sellerColumns, sellerJoins, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var sellers []Seller
	if err := r.db.SelectContext(ctx, &sellers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sellers: %w", err)
	}

	return sellers, total, nil
}
