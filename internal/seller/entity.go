// AngelaMos | 2026
// entity.go

package seller

import (
	"time"
)

// Seller is a seller application attached to a user account. A row exists
// from the moment the user applies; Approved flips when an admin signs off.
type Seller struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	Approved         bool      `db:"approved"`
	ApprovalDocument string    `db:"approval_document"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`

	// Joined from users for listing screens.
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}
