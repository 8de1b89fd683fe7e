package adminui

import (
	"errors"
	"net/http"
	"strings"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
)

var notices = map[string]string{
	"approved": "Account approved.",
	"disabled": "Account disabled.",
	"enabled":  "Account enabled.",
	"promoted": "Account is now an administrator.",
	"demoted":  "Account is now a member.",
}

func (a *app) handleLoginGet(w http.ResponseWriter, _ *http.Request) {
	a.templates.renderLogin(w, http.StatusOK, pageData{Title: "Sign in"})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, pageData{Title: "Sign in", Error: "Invalid form"})
		return
	}

	email := service.NormalizeEmail(r.Form.Get("email"))
	password := r.Form.Get("password")
	data := pageData{Title: "Sign in", Email: email}
	if email == "" || password == "" {
		data.Error = "Email and password are required"
		a.templates.renderLogin(w, http.StatusBadRequest, data)
		return
	}

	id, err := a.authSvc.Authenticate(r.Context(), email, password)
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, domain.ErrPendingApproval):
			status, data.Error = http.StatusForbidden, "This account is still waiting for approval."
		case errors.Is(err, domain.ErrAccountDisabled):
			status, data.Error = http.StatusForbidden, "This account has been disabled."
		case errors.Is(err, domain.ErrInvalidCredentials):
			data.Error = "Invalid email or password."
		default:
			a.logger.Error("adminui: login failed", "err", err)
			status, data.Error = http.StatusInternalServerError, "Something went wrong. Try again."
		}
		a.templates.renderLogin(w, status, data)
		return
	}
	if id.Role != domain.RoleAdmin {
		data.Error = "This account cannot use the admin console."
		a.templates.renderLogin(w, http.StatusForbidden, data)
		return
	}

	token, err := a.tokens.Issue(id)
	if err != nil {
		a.logger.Error("adminui: issue token failed", "err", err)
		data.Error = "Something went wrong. Try again."
		a.templates.renderLogin(w, http.StatusInternalServerError, data)
		return
	}
	auth.SetSessionCookie(w, token, a.tokens.TTL(), a.cookieSecure)
	http.Redirect(w, r, "/admin/accounts", http.StatusFound)
}

func (a *app) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (a *app) accountsPage(r *http.Request, data pageData) (pageData, error) {
	admin := currentAdmin(r.Context())
	data.Title = "Accounts"
	data.Admin = admin.Identity()
	data.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	accounts, err := a.adminSvc.SearchAccounts(r.Context(), data.Query, 0, 0)
	if err != nil {
		return data, err
	}
	data.Accounts = make([]accountRow, 0, len(accounts))
	for _, acct := range accounts {
		data.Accounts = append(data.Accounts, toRow(acct, admin.ID))
	}
	return data, nil
}

func (a *app) handleAccountsList(w http.ResponseWriter, r *http.Request) {
	data, err := a.accountsPage(r, pageData{Notice: notices[r.URL.Query().Get("done")]})
	if err != nil {
		a.logger.Error("adminui: list accounts failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, data.Admin, "Error", "Failed to load accounts")
		return
	}
	a.templates.renderAccounts(w, http.StatusOK, data)
}

func (a *app) handleAccountAction(w http.ResponseWriter, r *http.Request) {
	admin := currentAdmin(r.Context())
	targetID := r.PathValue("id")
	action := r.PathValue("action")

	if action == "reset-link" {
		a.handleResetLink(w, r, targetID)
		return
	}

	var (
		err  error
		done string
	)
	switch action {
	case "approve":
		_, err = a.adminSvc.SetStatus(r.Context(), admin.ID, targetID, domain.StatusActive)
		done = "approved"
	case "enable":
		_, err = a.adminSvc.SetStatus(r.Context(), admin.ID, targetID, domain.StatusActive)
		done = "enabled"
	case "disable":
		_, err = a.adminSvc.SetStatus(r.Context(), admin.ID, targetID, domain.StatusDisabled)
		done = "disabled"
	case "promote":
		_, err = a.adminSvc.SetRole(r.Context(), admin.ID, targetID, domain.RoleAdmin)
		done = "promoted"
	case "demote":
		_, err = a.adminSvc.SetRole(r.Context(), admin.ID, targetID, domain.RoleUser)
		done = "demoted"
	default:
		a.templates.renderError(w, http.StatusNotFound, admin.Identity(), "Not found", "Unknown action")
		return
	}

	if err != nil {
		status, msg := http.StatusInternalServerError, "The change could not be saved."
		switch {
		case errors.Is(err, domain.ErrSelfLockout):
			status, msg = http.StatusConflict, "You cannot lock yourself out of the console."
		case errors.Is(err, domain.ErrNotFound):
			status, msg = http.StatusNotFound, "That account no longer exists."
		default:
			a.logger.Error("adminui: account action failed", "action", action, "err", err)
		}
		a.templates.renderError(w, status, admin.Identity(), "Could not update account", msg)
		return
	}

	a.logger.Info("adminui: account updated", "actor_id", admin.ID, "account_id", targetID, "action", action)
	http.Redirect(w, r, "/admin/accounts?done="+done, http.StatusSeeOther)
}

func (a *app) handleResetLink(w http.ResponseWriter, r *http.Request, targetID string) {
	admin := currentAdmin(r.Context())
	if a.resetSvc == nil {
		a.templates.renderError(w, http.StatusServiceUnavailable, admin.Identity(), "Unavailable", "Password reset is not available.")
		return
	}

	target, err := a.adminSvc.GetAccount(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.templates.renderError(w, http.StatusNotFound, admin.Identity(), "Not found", "That account no longer exists.")
			return
		}
		a.logger.Error("adminui: load account failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, admin.Identity(), "Error", "Failed to load account")
		return
	}

	link, err := a.resetSvc.CreateResetLink(r.Context(), target.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountDisabled):
			a.templates.renderError(w, http.StatusConflict, admin.Identity(), "No reset link", "Enable the account before issuing a reset link.")
		case errors.Is(err, domain.ErrValidation):
			a.templates.renderError(w, http.StatusConflict, admin.Identity(), "No reset link", "This account signs in with Google or Apple and has no password.")
		default:
			a.logger.Error("adminui: create reset link failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, admin.Identity(), "Error", "Failed to create a reset link")
		}
		return
	}

	data, err := a.accountsPage(r, pageData{ResetLink: link, ResetFor: target.Email})
	if err != nil {
		a.logger.Error("adminui: list accounts failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, admin.Identity(), "Error", "Failed to load accounts")
		return
	}
	a.logger.Info("adminui: reset link issued", "actor_id", admin.ID, "account_id", target.ID)
	a.templates.renderAccounts(w, http.StatusOK, data)
}
