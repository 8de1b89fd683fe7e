package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
)

type authCtxKey int

const (
	authAccountKey authCtxKey = iota
	authClaimsKey
)

func (a *api) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return a.requireScope(auth.ScopeMember, next)
}

func (a *api) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.requireScope(auth.ScopeAdmin, next)
}

// requireScope verifies the session token and re-reads the account so a status
// or role change takes effect on the very next request.
func (a *api) requireScope(scope auth.Scope, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := auth.TokenFromRequest(r)
		if raw == "" {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		claims, err := a.tokens.Parse(raw)
		if err != nil {
			auth.ClearSessionCookie(w, a.cookieSecure)
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		acct, err := a.authSvc.SessionAccount(r.Context(), claims, scope)
		if err != nil {
			if errors.Is(err, domain.ErrAccountDisabled) || errors.Is(err, domain.ErrUnauthorized) {
				auth.ClearSessionCookie(w, a.cookieSecure)
			}
			WriteDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authAccountKey, acct)
		ctx = context.WithValue(ctx, authClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func CurrentAccount(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(authAccountKey).(domain.Account)
	return a, ok
}

func CurrentClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(authClaimsKey).(auth.Claims)
	return c, ok
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
