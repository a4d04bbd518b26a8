// AngelaMos | 2026
// validator.go

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/gate"
	"github.com/angelamos/marketplace-api/internal/middleware"
	"github.com/angelamos/marketplace-api/internal/user"
)

type Outcome int

const (
	OutcomeAnonymous Outcome = iota
	OutcomeAuthenticated
	OutcomeRejected
)

// Result is the per-request decision. Exactly one of Actor (authenticated)
// or Denial (rejected) is meaningful; anonymous carries neither.
type Result struct {
	Outcome     Outcome
	Actor       gate.Actor
	Denial      *core.AppError
	ClearCookie bool
}

type UserSource interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Validator enforces idle and absolute session timeouts and resolves the
// acting user on every request. It never caches: each decision re-reads
// current session and user state from the store.
type Validator struct {
	sessions        Repository
	users           UserSource
	idleTimeout     time.Duration
	absoluteTimeout time.Duration
	now             func() time.Time
}

func NewValidator(
	sessions Repository,
	users UserSource,
	cfg config.SessionConfig,
) *Validator {
	return &Validator{
		sessions:        sessions,
		users:           users,
		idleTimeout:     cfg.IdleTimeout,
		absoluteTimeout: cfg.AbsoluteTimeout,
		now:             time.Now,
	}
}

func (v *Validator) Validate(ctx context.Context, sid string) Result {
	if sid == "" {
		return Result{Outcome: OutcomeAnonymous}
	}

	sess, err := v.sessions.FindBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Unknown sid: a forged or stale cookie. Nothing to destroy.
			return Result{
				Outcome:     OutcomeRejected,
				Denial:      core.BadInputError(""),
				ClearCookie: true,
			}
		}
		return Result{Outcome: OutcomeRejected, Denial: internalDenial(err)}
	}

	if sess.Anonymous() {
		return Result{Outcome: OutcomeAnonymous}
	}

	now := v.now()

	// Absolute timeout is unconditional: it fires even for a continuously
	// active user.
	if now.Sub(sess.LoginTime) >= v.absoluteTimeout {
		return v.destroyAndReject(ctx, sid, core.SessionTimeoutError())
	}

	if now.Sub(sess.LastActive) >= v.idleTimeout {
		return v.destroyAndReject(ctx, sid, core.SessionTimeoutError())
	}

	u, err := v.users.GetByID(ctx, *sess.UID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return v.destroyAndReject(ctx, sid, core.NewAppError(
				core.ErrNotFound,
				core.MsgAccountNotFound,
				http.StatusNotFound,
				"ACCOUNT_NOT_FOUND",
			))
		}
		return Result{Outcome: OutcomeRejected, Denial: internalDenial(err)}
	}

	// Banned wins over deleted: it is the more restrictive state and must
	// never be bypassed by re-registration or reactivation.
	if u.Banned {
		return v.destroyAndReject(ctx, sid, core.NewAppError(
			core.ErrForbidden,
			core.MsgAccountBanned,
			http.StatusForbidden,
			"ACCOUNT_BANNED",
		))
	}

	if u.Deleted {
		return v.destroyAndReject(ctx, sid, core.NewAppError(
			core.ErrForbidden,
			core.MsgAccountDeleted,
			http.StatusForbidden,
			"ACCOUNT_DELETED",
		))
	}

	if err := v.sessions.Touch(ctx, sid); err != nil {
		// Best-effort; a stale last_active only shortens the idle window.
		slog.WarnContext(ctx, "session touch failed", "error", err)
	}

	actor := u.Actor()
	actor.SessionID = sid

	return Result{Outcome: OutcomeAuthenticated, Actor: actor}
}

// destroyAndReject removes the session row before returning the denial, so a
// timed-out or invalid session is never resolvable on a retried request. A
// failed delete is reported as an internal error instead of the denial.
func (v *Validator) destroyAndReject(
	ctx context.Context,
	sid string,
	denial *core.AppError,
) Result {
	if err := v.sessions.Delete(ctx, sid); err != nil {
		return Result{Outcome: OutcomeRejected, Denial: internalDenial(err)}
	}

	return Result{
		Outcome:     OutcomeRejected,
		Denial:      denial,
		ClearCookie: true,
	}
}

func internalDenial(err error) *core.AppError {
	return core.NewAppError(
		err,
		core.MsgInternal,
		http.StatusInternalServerError,
		"INTERNAL",
	)
}

// Middleware adapts the validator to the router. Anonymous requests pass
// through without an actor; public routes stay reachable.
func (v *Validator) Middleware(cfg config.SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sid = cookie.Value
			}

			result := v.Validate(r.Context(), sid)

			switch result.Outcome {
			case OutcomeRejected:
				if result.ClearCookie {
					ClearCookie(w, cfg)
				}
				core.JSONError(w, result.Denial)
				return

			case OutcomeAuthenticated:
				ctx := middleware.WithActor(r.Context(), result.Actor)
				next.ServeHTTP(w, r.WithContext(ctx))
				return

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func SetCookie(w http.ResponseWriter, cfg config.SessionConfig, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
