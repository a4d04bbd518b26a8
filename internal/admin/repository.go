// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Stats struct {
	TotalUsers      int `db:"total_users"      json:"totalUsers"`
	VerifiedUsers   int `db:"verified_users"   json:"verifiedUsers"`
	BannedUsers     int `db:"banned_users"     json:"bannedUsers"`
	TotalSellers    int `db:"total_sellers"    json:"totalSellers"`
	ApprovedSellers int `db:"approved_sellers" json:"approvedSellers"`
}

type Repository interface {
	PlatformStats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PlatformStats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted = false) AS total_users,
			(SELECT COUNT(*) FROM users WHERE deleted = false AND verified = true) AS verified_users,
			(SELECT COUNT(*) FROM users WHERE banned = true) AS banned_users,
			(SELECT COUNT(*) FROM sellers) AS total_sellers,
			(SELECT COUNT(*) FROM sellers WHERE approved = true) AS approved_sellers`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}

	return &stats, nil
}
