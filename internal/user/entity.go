// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/angelamos/marketplace-api/internal/gate"
)

// User is the aggregate root referenced by sessions and tokens. Rows are
// never hard-deleted; deleted and banned are independent flags and banned is
// always checked first.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	PhoneNumber  *string   `db:"phone_number"`
	Address      *string   `db:"address"`
	Verified     bool      `db:"verified"`
	Banned       bool      `db:"banned"`
	Deleted      bool      `db:"deleted"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Profile presence, loaded via LEFT JOIN. Presence of a row is the
	// permission signal; there is no role column on the user itself.
	BuyerID        *string `db:"buyer_id"`
	SellerID       *string `db:"seller_id"`
	SellerApproved *bool   `db:"seller_approved"`
	AdminID        *string `db:"admin_id"`
}

func (u *User) IsBuyer() bool {
	return u.BuyerID != nil
}

func (u *User) IsSeller() bool {
	return u.SellerID != nil
}

func (u *User) IsSellerApproved() bool {
	return u.SellerApproved != nil && *u.SellerApproved
}

func (u *User) IsAdmin() bool {
	return u.AdminID != nil
}

// Actor projects the user onto the immutable per-request view the gate
// evaluates. Session id is filled in by the session validator.
func (u *User) Actor() gate.Actor {
	actor := gate.Actor{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Verified:       u.Verified,
		Banned:         u.Banned,
		Deleted:        u.Deleted,
		Buyer:          u.IsBuyer(),
		Seller:         u.IsSeller(),
		SellerApproved: u.IsSellerApproved(),
		Admin:          u.IsAdmin(),
	}
	if u.SellerID != nil {
		actor.SellerID = *u.SellerID
	}
	return actor
}
