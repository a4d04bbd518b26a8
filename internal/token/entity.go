// AngelaMos | 2026
// entity.go

package token

import (
	"time"
)

// Type discriminates the out-of-band action a token authorizes.
type Type string

const (
	TypeEmailVerification Type = "EMAIL_VERIFICATION"
	TypeForgotPassword    Type = "FORGOT_PASSWORD"
	TypeDeleteAccount     Type = "DELETE_ACCOUNT"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEmailVerification, TypeForgotPassword, TypeDeleteAccount:
		return true
	}
	return false
}

// Token is a single-use, time-limited secret. The id is unguessable and
// doubles as the bearer secret sent to the user. At most one valid token per
// (userId, type) exists at any time; valid flips to false exactly once,
// through consumption or superseding issuance.
type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      Type      `db:"type"`
	CreatedAt time.Time `db:"created_at"`
	Valid     bool      `db:"valid"`
}

func (t *Token) ExpiresAt(ttl time.Duration) time.Time {
	return t.CreatedAt.Add(ttl)
}
