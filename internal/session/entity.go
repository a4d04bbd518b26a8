// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

// Session binds an opaque cookie value to a user and its activity
// timestamps. The sid is both the primary key and the cookie payload.
type Session struct {
	SID        string    `db:"sid"`
	UID        *string   `db:"uid"`
	LoginTime  time.Time `db:"login_time"`
	LastActive time.Time `db:"last_active"`
}

func (s *Session) Anonymous() bool {
	return s.UID == nil || *s.UID == ""
}
