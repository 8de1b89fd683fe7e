package auth

import "SpeedReaderwebserver/internal/domain"

type Scope int

const (
	ScopeMember Scope = iota
	ScopeAdmin
)

// Authorize decides whether a request may reach a resource of the given scope.
// claims come from the verified token; acct is the account as currently stored.
// A disabled status on either side locks the caller out.
func Authorize(claims Claims, acct domain.Account, scope Scope) error {
	if claims.Status == domain.StatusDisabled || acct.Status == domain.StatusDisabled {
		return domain.ErrAccountDisabled
	}
	if acct.ID == "" || acct.ID != claims.AccountID() {
		return domain.ErrUnauthorized
	}
	if !acct.Status.CanSignIn() {
		return domain.ErrUnauthorized
	}
	if scope == ScopeAdmin && acct.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
