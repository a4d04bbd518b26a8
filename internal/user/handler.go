// AngelaMos | 2026
// handler.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/mail"
	"github.com/angelamos/marketplace-api/internal/middleware"
	"github.com/angelamos/marketplace-api/internal/token"
)

// SessionEnder destroys server-side sessions. Declared here rather than
// importing the session package, which sits above this one in the graph.
type SessionEnder interface {
	DeleteAllForUser(ctx context.Context, userID string) error
}

type Handler struct {
	service   *Service
	tokens    *token.Service
	mailer    mail.Mailer
	sessions  SessionEnder
	validator *validator.Validate
}

func NewHandler(
	service *Service,
	tokens *token.Service,
	mailer mail.Mailer,
	sessions SessionEnder,
) *Handler {
	return &Handler{
		service:   service,
		tokens:    tokens,
		mailer:    mailer,
		sessions:  sessions,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsNotBanned,
			))
			r.Post("/request-delete", h.RequestDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsVerifiedOrAdmin,
			))
			r.Get("/{userID}", h.Get)
			r.Patch("/{userID}", h.UpdateProfile)
			r.Delete("/{userID}", h.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(
				gate.IsAuthenticated,
				gate.IsNotDeleted,
				gate.IsAdmin,
			))
			r.Get("/", h.List)
		})
	})
}

// selfOrAdmin reports whether the request actor may operate on targetID.
func selfOrAdmin(r *http.Request, targetID string) bool {
	if middleware.GetUserID(r.Context()) == targetID {
		return true
	}
	return middleware.GetCapabilities(r.Context()).Has(gate.Admin)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")

	if !selfOrAdmin(r, targetID) {
		core.Forbidden(w, core.MsgAccessDenied)
		return
	}

	u, err := h.service.GetByID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")

	if !selfOrAdmin(r, targetID) {
		core.Forbidden(w, core.MsgAccessDenied)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), targetID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

// RequestDelete issues a deletion code and mails it to the account owner.
// The actual deletion happens in Delete once the code comes back.
func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	tok, err := h.tokens.Issue(r.Context(), actor.ID, token.TypeDeleteAccount)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	subject, body := mail.DeleteAccountMessage(tok.ID)
	if err := h.mailer.Send(r.Context(), actor.Email, subject, body); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "Deletion code sent")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	caps := middleware.GetCapabilities(r.Context())
	self := middleware.GetUserID(r.Context()) == targetID

	if !self && !caps.Has(gate.Admin) {
		core.Forbidden(w, core.MsgAccessDenied)
		return
	}

	// Owners confirm with the mailed code; admins delete directly.
	if self && !caps.Has(gate.Admin) {
		var req DeleteAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}

		if _, err := h.tokens.Redeem(
			r.Context(), req.OTP, targetID, token.TypeDeleteAccount,
		); err != nil {
			switch {
			case errors.Is(err, core.ErrNotFound):
				core.NotFound(w, "Token")
			case errors.Is(err, core.ErrTokenInvalid):
				core.JSONError(w, core.TokenInvalidError())
			case errors.Is(err, core.ErrTokenExpired):
				core.JSONError(w, core.TokenExpiredError())
			default:
				core.InternalServerError(w, err)
			}
			return
		}
	}

	if err := h.service.Delete(r.Context(), targetID); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "User")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, core.MsgAccessDenied)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	// Every live session for the account dies with it.
	if err := h.sessions.DeleteAllForUser(r.Context(), targetID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "Account deleted")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	params.Normalize()

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToUserResponseList(users), params.Page, params.PageSize, total)
}

func listParamsFromQuery(r *http.Request) ListUsersParams {
	q := r.URL.Query()

	params := ListUsersParams{
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

	return params
}
