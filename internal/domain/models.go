package domain

import "time"

type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
	// StatusApprove is accepted from the store and treated like StatusActive.
	StatusApprove AccountStatus = "approve"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDisabled, StatusApprove:
		return true
	}
	return false
}

// CanSignIn reports whether an account in this status may hold a session.
func (s AccountStatus) CanSignIn() bool {
	return s == StatusActive || s == StatusApprove
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Account struct {
	ID          string
	Email       string
	Name        string
	Image       string
	Role        Role
	Status      AccountStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

type AccountWithPassword struct {
	Account
	PasswordHash string
}

// HasPassword is false for accounts created through a federated identity.
func (a AccountWithPassword) HasPassword() bool {
	return a.PasswordHash != ""
}

// Identity is the projection handed out after a successful sign-in.
type Identity struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Image  string        `json:"image,omitempty"`
	Role   Role          `json:"role"`
	Status AccountStatus `json:"status"`
}

func (a Account) Identity() Identity {
	return Identity{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Image:  a.Image,
		Role:   a.Role,
		Status: a.Status,
	}
}

type ExternalAccount struct {
	ID         string
	AccountID  string
	Provider   string
	ProviderID string
	Email      string
	CreatedAt  time.Time
}

type PasswordReset struct {
	AccountID string
	TokenHash string
	ExpiresAt time.Time
}
