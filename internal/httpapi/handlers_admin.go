package httpapi

import (
	"net/http"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/domain"
)

type accountResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	Name        string               `json:"name"`
	Image       string               `json:"image,omitempty"`
	Role        domain.Role          `json:"role"`
	Status      domain.AccountStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	LastLoginAt *time.Time           `json:"last_login_at,omitempty"`
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Image:       a.Image,
		Role:        a.Role,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

func (a *api) handleAdminAccountsList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, 0)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	accounts, err := a.adminSvc.SearchAccounts(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, toAccountResponse(acct))
	}
	WriteJSON(w, http.StatusOK, listResponse[accountResponse]{Items: out})
}

func (a *api) handleAdminAccountGet(w http.ResponseWriter, r *http.Request) {
	acct, err := a.adminSvc.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (a *api) handleAdminAccountStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req setStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	targetID := strings.TrimSpace(r.PathValue("id"))
	status := domain.AccountStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	acct, err := a.adminSvc.SetStatus(r.Context(), actor.ID, targetID, status)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.logger.Info("account status changed", "actor_id", actor.ID, "account_id", acct.ID, "status", acct.Status)
	WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (a *api) handleAdminAccountRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req setRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	targetID := strings.TrimSpace(r.PathValue("id"))
	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	acct, err := a.adminSvc.SetRole(r.Context(), actor.ID, targetID, role)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.logger.Info("account role changed", "actor_id", actor.ID, "account_id", acct.ID, "role", acct.Role)
	WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (a *api) handleAdminAccountResetLink(w http.ResponseWriter, r *http.Request) {
	if a.resetSvc == nil {
		WriteError(w, http.StatusServiceUnavailable, "reset_unavailable", "password reset unavailable")
		return
	}
	link, err := a.resetSvc.CreateResetLink(r.Context(), strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"reset_url": link})
}
