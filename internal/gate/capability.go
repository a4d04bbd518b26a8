// AngelaMos | 2026
// capability.go

package gate

// Capability is a named boolean fact about the acting user. Presence in the
// Set is the permission signal; there are no negative capabilities.
type Capability string

const (
	Authenticated  Capability = "authenticated"
	NotDeleted     Capability = "not_deleted"
	NotBanned      Capability = "not_banned"
	Verified       Capability = "verified"
	Buyer          Capability = "buyer"
	Seller         Capability = "seller"
	SellerApproved Capability = "seller_approved"
	Admin          Capability = "admin"
)

// Actor is the immutable per-request view of the resolved user. It is
// assembled once by the session validator and never mutated afterward;
// handlers and predicates read from it only.
type Actor struct {
	ID             string
	Email          string
	Name           string
	Verified       bool
	Banned         bool
	Deleted        bool
	Buyer          bool
	Seller         bool
	SellerApproved bool
	Admin          bool
	SellerID       string
	SessionID      string
}

func (a Actor) Authenticated() bool {
	return a.ID != ""
}

type Set map[Capability]struct{}

func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Compute derives the capability set from the actor. Called exactly once per
// request, after session validation.
func Compute(a Actor) Set {
	set := make(Set, 8)

	if !a.Authenticated() {
		return set
	}

	set[Authenticated] = struct{}{}

	if !a.Deleted {
		set[NotDeleted] = struct{}{}
	}
	if !a.Banned {
		set[NotBanned] = struct{}{}
	}
	if a.Verified {
		set[Verified] = struct{}{}
	}
	if a.Buyer {
		set[Buyer] = struct{}{}
	}
	if a.Seller {
		set[Seller] = struct{}{}
	}
	if a.SellerApproved {
		set[SellerApproved] = struct{}{}
	}
	if a.Admin {
		set[Admin] = struct{}{}
	}

	return set
}
