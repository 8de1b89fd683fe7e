package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Account domain.Identity `json:"account"`
	Message string          `json:"message"`
}

func (a *api) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	acct, err := a.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	a.logger.Info("account registered", "account_id", acct.ID)
	WriteJSON(w, http.StatusCreated, registerResponse{
		Account: acct.Identity(),
		Message: "registration received; an administrator must approve the account before you can sign in",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type idTokenRequest struct {
	IDToken string `json:"id_token"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   domain.Identity `json:"account"`
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	email := service.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"email": "required", "password": "required"}))
		return
	}

	now := time.Now()
	ip := clientIP(r)
	if !a.loginLimiter.Allow("ip:"+ip, now) || !a.loginLimiter.Allow("email:"+email, now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	id, err := a.authSvc.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.startSession(w, id)
}

func (a *api) handleAuthLoginGoogle(w http.ResponseWriter, r *http.Request) {
	a.handleAuthLoginExternal(w, r, a.authSvc.LoginWithGoogle)
}

func (a *api) handleAuthLoginApple(w http.ResponseWriter, r *http.Request) {
	a.handleAuthLoginExternal(w, r, a.authSvc.LoginWithApple)
}

func (a *api) handleAuthLoginExternal(w http.ResponseWriter, r *http.Request, login func(ctx context.Context, idToken string) (domain.Identity, error)) {
	var req idTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	req.IDToken = strings.TrimSpace(req.IDToken)
	if req.IDToken == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id_token": "required"}))
		return
	}

	if !a.loginLimiter.Allow("ip:"+clientIP(r), time.Now()) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	id, err := login(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.startSession(w, id)
}

func (a *api) startSession(w http.ResponseWriter, id domain.Identity) {
	token, err := a.tokens.Issue(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	auth.SetSessionCookie(w, token, a.tokens.TTL(), a.cookieSecure)
	WriteJSON(w, http.StatusOK, sessionResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(a.tokens.TTL()).UTC(),
		Account:   id,
	})
}

func (a *api) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, acct.Identity())
}
