// AngelaMos | 2026
// predicate.go

package gate

import (
	"net/http"

	"github.com/angelamos/marketplace-api/internal/core"
)

// Predicate is one gating requirement in a route's ordered chain. Chains
// evaluate in declaration order and stop at the first unmet predicate, whose
// Denial becomes the response.
type Predicate struct {
	Name   string
	Check  func(Set) bool
	Denial *core.AppError
}

func (p Predicate) Allowed(s Set) bool {
	return p.Check(s)
}

func has(c Capability) func(Set) bool {
	return func(s Set) bool { return s.Has(c) }
}

func denial(message string) *core.AppError {
	return core.NewAppError(
		core.ErrForbidden,
		message,
		http.StatusForbidden,
		"ACCESS_DENIED",
	)
}

// Any builds a composite predicate satisfied by any one of the listed
// capabilities. Used where administrators bypass a normally required
// capability.
func Any(name string, deny *core.AppError, caps ...Capability) Predicate {
	return Predicate{
		Name: name,
		Check: func(s Set) bool {
			for _, c := range caps {
				if s.Has(c) {
					return true
				}
			}
			return false
		},
		Denial: deny,
	}
}

// All builds a composite predicate requiring every listed capability. Chains
// of single predicates are preferred for precise denial messages; All exists
// for the rare case where one denial should cover several requirements.
func All(name string, deny *core.AppError, caps ...Capability) Predicate {
	return Predicate{
		Name: name,
		Check: func(s Set) bool {
			for _, c := range caps {
				if !s.Has(c) {
					return false
				}
			}
			return true
		},
		Denial: deny,
	}
}

// The standard predicates. Denial messages follow the API's message catalog:
// capability-specific where the caller can act on it, generic otherwise.
var (
	IsAuthenticated = Predicate{
		Name:   "authenticated",
		Check:  has(Authenticated),
		Denial: denial(core.MsgAccessDenied),
	}

	IsNotDeleted = Predicate{
		Name:   "not_deleted",
		Check:  has(NotDeleted),
		Denial: denial(core.MsgAccountDeleted),
	}

	IsNotBanned = Predicate{
		Name:   "not_banned",
		Check:  has(NotBanned),
		Denial: denial(core.MsgAccountBanned),
	}

	IsVerified = Predicate{
		Name:   "verified",
		Check:  has(Verified),
		Denial: denial(core.MsgUnverified),
	}

	IsBuyer = Predicate{
		Name:   "buyer",
		Check:  has(Buyer),
		Denial: denial(core.MsgAccessDenied),
	}

	IsSeller = Predicate{
		Name:   "seller",
		Check:  has(Seller),
		Denial: denial(core.MsgAccessDenied),
	}

	IsSellerApproved = Predicate{
		Name:   "seller_approved",
		Check:  has(SellerApproved),
		Denial: denial(core.MsgUnverified),
	}

	IsAdmin = Predicate{
		Name:   "admin",
		Check:  has(Admin),
		Denial: denial(core.MsgAccessDenied),
	}

	IsApprovedSellerOrAdmin = Any(
		"approved_seller_or_admin",
		denial(core.MsgAccessDenied),
		Admin,
		SellerApproved,
	)

	IsVerifiedOrAdmin = Any(
		"verified_or_admin",
		denial(core.MsgAccessDenied),
		Admin,
		Verified,
	)
)
