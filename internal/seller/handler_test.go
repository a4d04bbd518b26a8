// AngelaMos | 2026
// handler_test.go

package seller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/middleware"
)

func applyAs(t *testing.T, actor gate.Actor) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	NewHandler(NewService(newFakeRepo())).RegisterRoutes(router)

	body := `{"approvalDocument":"https://example.com/docs/license.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/sellers/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithActor(req.Context(), actor))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApplyRequiresBuyerProfile(t *testing.T) {
	actor := gate.Actor{ID: "u1", SessionID: "s1", Verified: true}

	rec := applyAs(t, actor)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a buyer profile, got %d", rec.Code)
	}
}

func TestApplyAcceptsVerifiedBuyer(t *testing.T) {
	actor := gate.Actor{ID: "u1", SessionID: "s1", Verified: true, Buyer: true}

	rec := applyAs(t, actor)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a verified buyer, got %d", rec.Code)
	}
}
