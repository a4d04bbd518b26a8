// AngelaMos | 2026
// handler.go

package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/middleware"
	"github.com/angelamos/marketplace-api/internal/user"
)

type Handler struct {
	users *user.Service
	repo  Repository
}

func NewHandler(users *user.Service, repo Repository) *Handler {
	return &Handler{users: users, repo: repo}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Require(
			gate.IsAuthenticated,
			gate.IsNotDeleted,
			gate.IsAdmin,
		))

		r.Get("/stats", h.Stats)
		r.Get("/users", h.ListUsers)
		r.Get("/users/{userID}", h.GetUser)
		r.Post("/users/{userID}/restrict", h.Restrict)
		r.Post("/users/{userID}/unrestrict", h.Unrestrict)
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.PlatformStats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := user.ListUsersParams{
		Search: q.Get("search"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = size
	}
	if raw := q.Get("verified"); raw != "" {
		if verified, err := strconv.ParseBool(raw); err == nil {
			params.Verified = &verified
		}
	}
	params.Normalize()

	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, user.ToUserResponseList(users), params.Page, params.PageSize, total)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func (h *Handler) Restrict(w http.ResponseWriter, r *http.Request) {
	err := h.users.Restrict(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "User")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "Admin accounts cannot be restricted")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OKMessage(w, "Account restricted")
}

func (h *Handler) Unrestrict(w http.ResponseWriter, r *http.Request) {
	err := h.users.Unrestrict(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "Account unrestricted")
}
