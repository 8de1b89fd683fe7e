package service

import (
	"context"
	"strings"

	"SpeedReaderwebserver/internal/domain"
)

type AdminAccountsStore interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	SearchAccounts(ctx context.Context, query string, limit, offset int) ([]domain.Account, error)
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	SetStatus(ctx context.Context, accountID string, status domain.AccountStatus) (domain.Account, error)
	SetRole(ctx context.Context, accountID string, role domain.Role) (domain.Account, error)
}

type AdminService struct {
	Accounts AdminAccountsStore
}

func (s *AdminService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	return s.Accounts.ListAccounts(ctx, limit, offset)
}

func (s *AdminService) SearchAccounts(ctx context.Context, query string, limit, offset int) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Accounts.ListAccounts(ctx, limit, offset)
	}
	return s.Accounts.SearchAccounts(ctx, query, limit, offset)
}

func (s *AdminService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return s.Accounts.GetAccountByID(ctx, id)
}

// SetStatus changes an account's status. An administrator cannot move their
// own account out of a sign-in status.
func (s *AdminService) SetStatus(ctx context.Context, actorID, accountID string, status domain.AccountStatus) (domain.Account, error) {
	if !status.Valid() {
		return domain.Account{}, domain.NewValidationError(map[string]string{"status": "must be one of pending, active, disabled"})
	}
	if actorID == accountID && !status.CanSignIn() {
		return domain.Account{}, domain.ErrSelfLockout
	}
	return s.Accounts.SetStatus(ctx, accountID, status)
}

func (s *AdminService) SetRole(ctx context.Context, actorID, accountID string, role domain.Role) (domain.Account, error) {
	if !role.Valid() {
		return domain.Account{}, domain.NewValidationError(map[string]string{"role": "must be one of user, admin"})
	}
	if actorID == accountID && role != domain.RoleAdmin {
		return domain.Account{}, domain.ErrSelfLockout
	}
	return s.Accounts.SetRole(ctx, accountID, role)
}
