// AngelaMos | 2026
// handler.go

package seller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sellers", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsNotBanned,
				gate.IsVerified,
				gate.IsBuyer,
			))
			r.Post("/apply", h.Apply)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsApprovedSellerOrAdmin,
			))
			r.Get("/me", h.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsAdmin,
			))
			r.Get("/", h.List)
			r.Get("/{sellerID}", h.Get)
			r.Patch("/{sellerID}/approve", h.Approve)
			r.Patch("/{sellerID}/deny", h.Deny)
		})
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	seller, err := h.service.Apply(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			core.BadRequest(w, "Seller application already submitted")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.CreatedMessage(w, "Seller application submitted", ToSellerResponse(seller))
}

// Me returns the caller's own seller profile. Admins without one get a 404
// rather than a denial; they passed the gate but have nothing to show.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	seller, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Seller")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	seller, err := h.service.GetByID(r.Context(), chi.URLParam(r, "sellerID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Seller")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	seller, err := h.service.Approve(r.Context(), chi.URLParam(r, "sellerID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Seller")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) Deny(w http.ResponseWriter, r *http.Request) {
	err := h.service.Deny(r.Context(), chi.URLParam(r, "sellerID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Seller")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "Seller application denied")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListSellersParams{}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = size
	}
	if raw := q.Get("approved"); raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			params.Approved = &approved
		}
	}
	params.Normalize()

	sellers, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToSellerResponseList(sellers), params.Page, params.PageSize, total)
}
