// AngelaMos | 2026
// require.go

package middleware

import (
	"net/http"

	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
)

// Require gates a route on an ordered predicate chain. Evaluation stops at
// the first unmet predicate; its denial is the response.
func Require(preds ...gate.Predicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caps := GetCapabilities(r.Context())

			for _, pred := range preds {
				if !pred.Allowed(caps) {
					core.JSONError(w, pred.Denial)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
