package httpapi

import (
	"errors"
	"net/http"
	"time"

	"SpeedReaderwebserver/internal/email"
	"SpeedReaderwebserver/internal/service"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (a *api) handleAuthForgot(w http.ResponseWriter, r *http.Request) {
	if a.resetSvc == nil {
		WriteError(w, http.StatusServiceUnavailable, "reset_unavailable", "password reset unavailable")
		return
	}

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	now := time.Now()
	addr := service.NormalizeEmail(req.Email)
	if !a.loginLimiter.Allow("forgot:ip:"+clientIP(r), now) || !a.loginLimiter.Allow("forgot:email:"+addr, now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	if err := a.resetSvc.RequestReset(r.Context(), addr); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			WriteError(w, http.StatusServiceUnavailable, "smtp_unavailable", "email delivery is not configured")
			return
		}
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "if an account exists for that email, a reset link is on its way",
	})
}

func (a *api) handleAuthReset(w http.ResponseWriter, r *http.Request) {
	if a.resetSvc == nil {
		WriteError(w, http.StatusServiceUnavailable, "reset_unavailable", "password reset unavailable")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.resetSvc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
