package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
)

type AccountsStore interface {
	CreateAccount(ctx context.Context, email, name, passwordHash string) (domain.Account, error)
	CreateFederatedAccount(ctx context.Context, provider, providerID, email, name, image string) (domain.Account, error)
	LinkExternalAccount(ctx context.Context, accountID, provider, providerID, email string) error
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error)
	GetAccountByExternal(ctx context.Context, provider, providerID string) (domain.Account, error)
	SetLastLogin(ctx context.Context, accountID string, when time.Time) error
}

// StatusSetter promotes a pending account on its first federated sign-in.
type StatusSetter interface {
	SetStatus(ctx context.Context, accountID string, status domain.AccountStatus) (domain.Account, error)
}

type AuthService struct {
	Accounts AccountsStore
	Statuses StatusSetter
	Now      func() time.Time

	GoogleClientID      string
	AppleClientID       string
	VerifyGoogleIDToken auth.IDTokenVerifier
	VerifyAppleIDToken  auth.IDTokenVerifier
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Register creates a pending account. It never establishes a session.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "required"
	} else if len(name) > 100 {
		fields["name"] = "must be at most 100 characters"
	}
	if email == "" {
		fields["email"] = "required"
	} else if !validEmail(email) {
		fields["email"] = "must be a valid email address"
	}
	if password == "" {
		fields["password"] = "required"
	} else if len(password) < auth.MinPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength)
	}
	if len(fields) > 0 {
		return domain.Account{}, domain.NewValidationError(fields)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	return s.Accounts.CreateAccount(ctx, email, name, passwordHash)
}

// Authenticate checks credentials first and only then looks at the account
// status, so blocked-account errors are never returned for a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	a, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			auth.BurnVerify(password)
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}
	if !a.HasPassword() {
		auth.BurnVerify(password)
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(a.PasswordHash, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	if err := statusError(a.Status); err != nil {
		return domain.Identity{}, err
	}

	if err := s.Accounts.SetLastLogin(ctx, a.ID, s.now()); err != nil {
		return domain.Identity{}, err
	}
	return a.Identity(), nil
}

func statusError(status domain.AccountStatus) error {
	switch status {
	case domain.StatusPending:
		return domain.ErrPendingApproval
	case domain.StatusDisabled:
		return domain.ErrAccountDisabled
	}
	if !status.CanSignIn() {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (domain.Identity, error) {
	verify := s.VerifyGoogleIDToken
	if verify == nil {
		verify = auth.VerifyGoogleIDToken
	}
	if strings.TrimSpace(s.GoogleClientID) == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return s.loginExternal(ctx, auth.ProviderGoogle, idToken, s.GoogleClientID, verify)
}

func (s *AuthService) LoginWithApple(ctx context.Context, idToken string) (domain.Identity, error) {
	verify := s.VerifyAppleIDToken
	if verify == nil {
		verify = auth.VerifyAppleIDToken
	}
	if strings.TrimSpace(s.AppleClientID) == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return s.loginExternal(ctx, auth.ProviderApple, idToken, s.AppleClientID, verify)
}

func (s *AuthService) loginExternal(ctx context.Context, provider, idToken, audience string, verify auth.IDTokenVerifier) (domain.Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return domain.Identity{}, domain.NewValidationError(map[string]string{"id_token": "required"})
	}

	claims, err := verify(ctx, idToken, audience)
	if err != nil || claims == nil || claims.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	acct, err := s.Accounts.GetAccountByExternal(ctx, provider, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		acct, err = s.firstExternalLogin(ctx, provider, claims)
		if err != nil {
			return domain.Identity{}, err
		}
	default:
		return domain.Identity{}, err
	}

	if err := statusError(acct.Status); err != nil {
		return domain.Identity{}, err
	}
	if err := s.Accounts.SetLastLogin(ctx, acct.ID, s.now()); err != nil {
		return domain.Identity{}, err
	}
	return acct.Identity(), nil
}

// firstExternalLogin links the identity to an existing account with the same
// email, or creates a new active account without a password.
func (s *AuthService) firstExternalLogin(ctx context.Context, provider string, claims *auth.ExternalTokenClaims) (domain.Account, error) {
	email := NormalizeEmail(claims.Email)
	if email == "" {
		return domain.Account{}, domain.NewValidationError(map[string]string{"email": "identity provider did not share an email"})
	}

	existing, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, err
	}
	if err == nil {
		if err := s.Accounts.LinkExternalAccount(ctx, existing.ID, provider, claims.Subject, email); err != nil {
			return domain.Account{}, err
		}
		acct := existing.Account
		if acct.Status == domain.StatusPending && s.Statuses != nil {
			acct, err = s.Statuses.SetStatus(ctx, acct.ID, domain.StatusActive)
			if err != nil {
				return domain.Account{}, err
			}
		}
		return acct, nil
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return s.Accounts.CreateFederatedAccount(ctx, provider, claims.Subject, email, name, claims.Picture)
}

// SessionAccount loads the current account behind a verified token and applies the gate.
func (s *AuthService) SessionAccount(ctx context.Context, claims auth.Claims, scope auth.Scope) (domain.Account, error) {
	if claims.Status == domain.StatusDisabled {
		return domain.Account{}, domain.ErrAccountDisabled
	}
	acct, err := s.Accounts.GetAccountByID(ctx, claims.AccountID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrUnauthorized
		}
		return domain.Account{}, err
	}
	if err := auth.Authorize(claims, acct, scope); err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}
