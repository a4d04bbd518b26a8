// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/middleware"
	"github.com/angelamos/marketplace-api/internal/session"
	"github.com/angelamos/marketplace-api/internal/user"
)

type Handler struct {
	service    *Service
	sessionCfg config.SessionConfig
	appCfg     config.AppConfig
	validator  *validator.Validate
}

func NewHandler(
	service *Service,
	sessionCfg config.SessionConfig,
	appCfg config.AppConfig,
) *Handler {
	return &Handler{
		service:    service,
		sessionCfg: sessionCfg,
		appCfg:     appCfg,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/verify", h.Verify)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/update-password", h.UpdatePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(gate.IsAuthenticated))
			r.Get("/logout", h.Logout)
			r.Post("/resend-verification-email", h.ResendVerification)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			core.BadRequest(w, core.MsgBadInput)
		case errors.Is(err, ErrWeakPassword):
			core.BadRequest(w, core.MsgWeakPassword)
		case errors.Is(err, ErrAccountExists):
			core.BadRequest(w, core.MsgAccountExists)
		case errors.Is(err, ErrMailNotSent):
			// The account row is committed; only delivery failed. The
			// client recovers via resend, not by registering again.
			core.CreatedMessage(w, core.MsgMailNotSent, toAccountResponse(account))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.CreatedMessage(w, "Account created, verification pending", toAccountResponse(account))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, sess, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			core.BadRequest(w, core.MsgBadInput)
		case errors.Is(err, ErrAccountNotFound):
			core.NotFound(w, "User")
		case errors.Is(err, ErrWrongPassword):
			core.Unauthorized(w, core.MsgWrongPassword)
		case errors.Is(err, ErrAccountBanned):
			core.Forbidden(w, core.MsgAccountBanned)
		case errors.Is(err, ErrAccountDeleted):
			core.Forbidden(w, core.MsgAccountDeleted)
		case errors.Is(err, ErrUnverifiedAccount):
			core.Unauthorized(w, core.MsgUnverified)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	session.SetCookie(w, h.sessionCfg, sess.SID)
	core.OK(w, toAccountResponse(account))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())

	if err := h.service.Logout(r.Context(), sid); err != nil {
		core.InternalServerError(w, err)
		return
	}

	session.ClearCookie(w, h.sessionCfg)
	core.OKMessage(w, "Logged out")
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	tokenID := r.URL.Query().Get("token")
	userID := r.URL.Query().Get("userId")

	if tokenID == "" || userID == "" {
		core.BadRequest(w, core.MsgBadInput)
		return
	}

	if err := h.service.VerifyEmail(r.Context(), tokenID, userID); err != nil {
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

	http.Redirect(w, r, h.appCfg.BaseURL+"/login?verified=true", http.StatusFound)
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.ResendVerification(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyVerified):
			core.BadRequest(w, "Account already verified")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OKMessage(w, "Verification email sent")
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			core.BadRequest(w, core.MsgBadInput)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	// Same response whether or not the email maps to an account.
	core.OKMessage(w, "If the account exists, a reset code has been sent")
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UpdatePassword(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrWeakPassword):
			core.BadRequest(w, core.MsgWeakPassword)
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

	core.OKMessage(w, "Password updated")
}

func toAccountResponse(u *user.User) AccountResponse {
	return AccountResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
