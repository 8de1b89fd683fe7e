package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/email"
)

type ResetAccountsStore interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error)
	SetResetToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error
	GetResetByTokenHash(ctx context.Context, tokenHash string) (domain.PasswordReset, error)
	SetPasswordHash(ctx context.Context, accountID, passwordHash string) error
}

type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg email.Message) error
}

type PasswordResetService struct {
	Accounts ResetAccountsStore
	Mailer   Mailer
	Logger   *slog.Logger
	TokenTTL time.Duration
	Now      func() time.Time
	// ResetURL turns a raw token into the link a user follows.
	ResetURL func(token string) string
}

const defaultResetTTL = 2 * time.Hour

func (s *PasswordResetService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return defaultResetTTL
	}
	return s.TokenTTL
}

// RequestReset emails a reset link when the address belongs to a password
// account that is not disabled. The caller gets the same result either way.
func (s *PasswordResetService) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)
	if !validEmail(emailAddr) {
		return domain.NewValidationError(map[string]string{"email": "must be a valid email address"})
	}
	if s.Mailer == nil || !s.Mailer.Configured() {
		return email.ErrNotConfigured
	}

	acct, err := s.Accounts.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !acct.HasPassword() || acct.Status == domain.StatusDisabled {
		return nil
	}

	raw, err := s.issue(ctx, acct.ID)
	if err != nil {
		return err
	}

	body := strings.Join([]string{
		"Hi " + acct.Name + ",",
		"",
		"Someone asked to reset the password for your Speed Reader account.",
		"Use this link within " + s.ttl().String() + " to choose a new password:",
		s.link(raw),
		"",
		"If you did not request this, you can ignore this email.",
	}, "\n")
	if err := s.Mailer.Send(ctx, email.Message{
		ToEmail:  acct.Email,
		Subject:  "Reset your Speed Reader password",
		TextBody: body,
	}); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("password reset sent", "account_id", acct.ID)
	}
	return nil
}

// resettable loads an account by id together with its password hash.
func (s *PasswordResetService) resettable(ctx context.Context, accountID string) (domain.AccountWithPassword, error) {
	acct, err := s.Accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.AccountWithPassword{}, err
	}
	return s.Accounts.GetAccountByEmail(ctx, acct.Email)
}

// CreateResetLink issues a token for an administrator to hand over directly.
// Disabled accounts and accounts without a password cannot be given one.
func (s *PasswordResetService) CreateResetLink(ctx context.Context, accountID string) (string, error) {
	acct, err := s.resettable(ctx, accountID)
	if err != nil {
		return "", err
	}
	if acct.Status == domain.StatusDisabled {
		return "", domain.ErrAccountDisabled
	}
	if !acct.HasPassword() {
		return "", domain.NewValidationError(map[string]string{"account": "signs in with an external provider"})
	}
	raw, err := s.issue(ctx, acct.ID)
	if err != nil {
		return "", err
	}
	return s.link(raw), nil
}

func (s *PasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.ErrResetTokenInvalid
	}
	if len(newPassword) < auth.MinPasswordLength {
		return domain.NewValidationError(map[string]string{"password": fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength)})
	}

	reset, err := s.Accounts.GetResetByTokenHash(ctx, hashResetToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if !reset.ExpiresAt.After(s.now()) {
		return domain.ErrResetTokenExpired
	}

	// The account may have changed since the token was issued.
	acct, err := s.resettable(ctx, reset.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if acct.ID != reset.AccountID || acct.Status == domain.StatusDisabled || !acct.HasPassword() {
		return domain.ErrResetTokenInvalid
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Accounts.SetPasswordHash(ctx, reset.AccountID, hash)
}

func (s *PasswordResetService) issue(ctx context.Context, accountID string) (string, error) {
	raw, tokenHash, err := newResetToken()
	if err != nil {
		return "", err
	}
	if err := s.Accounts.SetResetToken(ctx, accountID, tokenHash, s.now().Add(s.ttl())); err != nil {
		return "", err
	}
	return raw, nil
}

func (s *PasswordResetService) link(raw string) string {
	if s.ResetURL == nil {
		return raw
	}
	return s.ResetURL(raw)
}

func newResetToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read token: %w", err)
	}
	raw := base64.RawURLEncoding.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
