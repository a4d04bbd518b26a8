// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelamos/marketplace-api/internal/config"
	"github.com/angelamos/marketplace-api/internal/core"
	"github.com/angelamos/marketplace-api/internal/mail"
	"github.com/angelamos/marketplace-api/internal/session"
	"github.com/angelamos/marketplace-api/internal/token"
	"github.com/angelamos/marketplace-api/internal/user"
)

var (
	ErrBadInput          = errors.New("bad input")
	ErrWeakPassword      = errors.New("weak password")
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrWrongPassword     = errors.New("wrong password")
	ErrAccountDeleted    = errors.New("account deleted")
	ErrAccountBanned     = errors.New("account banned")
	ErrUnverifiedAccount = errors.New("unverified account")
	ErrAlreadyVerified   = errors.New("account already verified")

	// ErrMailNotSent marks the committed-but-unmailed partial state: the
	// user or token row exists, only delivery failed. Recovery is a resend,
	// never a rollback.
	ErrMailNotSent = errors.New("mail not sent")
)

// PasswordHasher is the hashing boundary; core.Argon2Hasher is the
// production implementation.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
	NeedsRehash(digest string) bool
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, email, passwordHash, name string) (*user.User, error)
	Reactivate(ctx context.Context, id, name, passwordHash string) (*user.User, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type TokenService interface {
	Issue(ctx context.Context, userID string, typ token.Type) (*token.Token, error)
	Redeem(ctx context.Context, id, userID string, typ token.Type) (*token.Token, error)
}

// Service orchestrates registration, login and the out-of-band token flows.
type Service struct {
	users    UserProvider
	sessions session.Repository
	tokens   TokenService
	mailer   mail.Mailer
	hasher   PasswordHasher
	baseURL  string
	now      func() time.Time
}

func NewService(
	users UserProvider,
	sessions session.Repository,
	tokens TokenService,
	mailer mail.Mailer,
	hasher PasswordHasher,
	appCfg config.AppConfig,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		hasher:   hasher,
		baseURL:  appCfg.BaseURL,
		now:      time.Now,
	}
}

// Register creates a pending-verification account, or reactivates a
// soft-deleted non-banned one under its original id. The password is hashed
// before any store write; plaintext never reaches the persistence layer.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*user.User, error) {
	if !ValidEmail(req.Email) {
		return nil, fmt.Errorf("register: %w", ErrBadInput)
	}
	if !ValidPassword(req.Password) {
		return nil, fmt.Errorf("register: %w", ErrWeakPassword)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var account *user.User

	existing, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.Deleted && !existing.Banned:
		// Intentional idempotent-reuse path: the account's id and history
		// are preserved; verification starts over.
		account, err = s.users.Reactivate(ctx, existing.ID, req.Name, passwordHash)
		if err != nil {
			return nil, fmt.Errorf("reactivate account: %w", err)
		}

	case err == nil:
		return nil, fmt.Errorf("register: %w", ErrAccountExists)

	case errors.Is(err, core.ErrNotFound):
		account, err = s.users.Create(ctx, req.Email, passwordHash, req.Name)
		if err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return nil, fmt.Errorf("register: %w", ErrAccountExists)
			}
			return nil, fmt.Errorf("create account: %w", err)
		}

	default:
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := s.sendVerification(ctx, account); err != nil {
		return account, err
	}

	return account, nil
}

// Login runs the ordered credential checks. The password is compared before
// any account-state check so credential probing cannot distinguish banned,
// deleted and unverified accounts from live ones.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*user.User, *session.Session, error) {
	if !ValidEmail(req.Email) {
		return nil, nil, fmt.Errorf("login: %w", ErrBadInput)
	}

	account, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn the same argon2 cost as a real verification so unknown
			// emails are not distinguishable by timing.
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, nil, fmt.Errorf("login: %w", ErrAccountNotFound)
		}
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}

	valid, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, nil, fmt.Errorf("login: %w", ErrWrongPassword)
	}

	// Banned is terminal and always wins, even over deleted.
	if account.Banned {
		return nil, nil, fmt.Errorf("login: %w", ErrAccountBanned)
	}
	if account.Deleted {
		return nil, nil, fmt.Errorf("login: %w", ErrAccountDeleted)
	}
	if !account.Verified {
		return nil, nil, fmt.Errorf("login: %w", ErrUnverifiedAccount)
	}

	// The plaintext is only in hand during login, so stale cost parameters
	// are upgraded here. Failure keeps the old digest and the login proceeds.
	if s.hasher.NeedsRehash(account.PasswordHash) {
		if rehashed, err := s.hasher.Hash(req.Password); err == nil {
			if err := s.users.UpdatePassword(ctx, account.ID, rehashed); err != nil {
				slog.WarnContext(ctx, "password rehash failed",
					"user_id", account.ID,
					"error", err,
				)
			}
		}
	}

	sid, err := core.NewSessionID()
	if err != nil {
		return nil, nil, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now()
	sess := &session.Session{
		SID:        sid,
		UID:        &account.ID,
		LoginTime:  now,
		LastActive: now,
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return account, sess, nil
}

// Logout waits for the store delete before returning, so the client can
// never observe success without the durable side effect.
func (s *Service) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// VerifyEmail redeems an EmailVerification token and marks the account
// verified. A racing duplicate submission reports invalid.
func (s *Service) VerifyEmail(
	ctx context.Context,
	tokenID, userID string,
) error {
	if _, err := s.tokens.Redeem(ctx, tokenID, userID, token.TypeEmailVerification); err != nil {
		return err
	}

	if err := s.users.SetVerified(ctx, userID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	return nil
}

func (s *Service) ResendVerification(ctx context.Context, userID string) error {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}

	if account.Verified {
		return fmt.Errorf("resend verification: %w", ErrAlreadyVerified)
	}

	return s.sendVerification(ctx, account)
}

// ForgotPassword always reports success to the caller; whether the email
// maps to an account is never revealed. Only live accounts get a token.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return fmt.Errorf("forgot password: %w", ErrBadInput)
	}

	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	if account.Banned || account.Deleted {
		return nil
	}

	otp, err := s.tokens.Issue(ctx, account.ID, token.TypeForgotPassword)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	subject, body := mail.PasswordResetMessage(otp.ID)
	if err := s.mailer.Send(ctx, account.Email, subject, body); err != nil {
		slog.ErrorContext(ctx, "password reset mail failed",
			"user_id", account.ID,
			"error", err,
		)
		return fmt.Errorf("send reset mail: %w", ErrMailNotSent)
	}

	return nil
}

// UpdatePassword redeems a ForgotPassword token, replaces the digest, and
// destroys every session of the user: a stolen session does not survive a
// password reset.
func (s *Service) UpdatePassword(
	ctx context.Context,
	req UpdatePasswordRequest,
) error {
	if !ValidPassword(req.Password) {
		return fmt.Errorf("update password: %w", ErrWeakPassword)
	}

	if _, err := s.tokens.Redeem(ctx, req.OTP, req.UserID, token.TypeForgotPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, req.UserID, passwordHash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, req.UserID); err != nil {
		return fmt.Errorf("end sessions: %w", err)
	}

	return nil
}

func (s *Service) sendVerification(ctx context.Context, account *user.User) error {
	verification, err := s.tokens.Issue(ctx, account.ID, token.TypeEmailVerification)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	subject, body := mail.VerificationMessage(s.baseURL, account.ID, verification.ID)
	if err := s.mailer.Send(ctx, account.Email, subject, body); err != nil {
		slog.ErrorContext(ctx, "verification mail failed",
			"user_id", account.ID,
			"error", err,
		)
		return fmt.Errorf("send verification mail: %w", ErrMailNotSent)
	}

	return nil
}
