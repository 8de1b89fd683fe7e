package adminui

import (
	"SpeedReaderwebserver/internal/domain"
)

type accountRow struct {
	ID          string
	Name        string
	Email       string
	Status      domain.AccountStatus
	RoleLabel   string
	StatusLabel string
	LastLogin   string
	Actions     []rowAction
}

type rowAction struct {
	Label string
	Path  string
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleAdmin {
		return "Administrator"
	}
	return "Member"
}

func statusLabel(s domain.AccountStatus) string {
	switch s {
	case domain.StatusPending:
		return "Awaiting approval"
	case domain.StatusActive, domain.StatusApprove:
		return "Active"
	case domain.StatusDisabled:
		return "Disabled"
	}
	return string(s)
}

// actionsFor lists the buttons shown for an account. An administrator never
// sees actions that would lock themselves out.
func actionsFor(acct domain.Account, selfID string) []rowAction {
	base := "/admin/accounts/" + acct.ID + "/"
	self := acct.ID == selfID
	var out []rowAction

	switch {
	case acct.Status == domain.StatusPending:
		out = append(out, rowAction{Label: "Approve", Path: base + "approve"})
		if !self {
			out = append(out, rowAction{Label: "Disable", Path: base + "disable"})
		}
	case acct.Status == domain.StatusDisabled:
		out = append(out, rowAction{Label: "Enable", Path: base + "enable"})
	case !self:
		out = append(out, rowAction{Label: "Disable", Path: base + "disable"})
	}

	if acct.Status.CanSignIn() {
		if acct.Role == domain.RoleAdmin {
			if !self {
				out = append(out, rowAction{Label: "Make member", Path: base + "demote"})
			}
		} else {
			out = append(out, rowAction{Label: "Make admin", Path: base + "promote"})
		}
	}

	if acct.Status != domain.StatusDisabled {
		out = append(out, rowAction{Label: "Reset link", Path: base + "reset-link"})
	}
	return out
}

func toRow(acct domain.Account, selfID string) accountRow {
	row := accountRow{
		ID:          acct.ID,
		Name:        acct.Name,
		Email:       acct.Email,
		Status:      acct.Status,
		RoleLabel:   roleLabel(acct.Role),
		StatusLabel: statusLabel(acct.Status),
		LastLogin:   "never",
		Actions:     actionsFor(acct, selfID),
	}
	if acct.LastLoginAt != nil {
		row.LastLogin = acct.LastLoginAt.UTC().Format("2006-01-02 15:04")
	}
	return row
}
