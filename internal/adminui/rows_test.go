package adminui

import (
	"testing"

	"SpeedReaderwebserver/internal/domain"
)

func labels(actions []rowAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Label)
	}
	return out
}

func TestActionsFor(t *testing.T) {
	tests := []struct {
		name   string
		acct   domain.Account
		selfID string
		want   []string
	}{
		{
			name: "pending member",
			acct: domain.Account{ID: "a", Role: domain.RoleUser, Status: domain.StatusPending},
			want: []string{"Approve", "Disable", "Reset link"},
		},
		{
			name: "active member",
			acct: domain.Account{ID: "a", Role: domain.RoleUser, Status: domain.StatusActive},
			want: []string{"Disable", "Make admin", "Reset link"},
		},
		{
			name: "disabled member",
			acct: domain.Account{ID: "a", Role: domain.RoleUser, Status: domain.StatusDisabled},
			want: []string{"Enable"},
		},
		{
			name: "other admin",
			acct: domain.Account{ID: "a", Role: domain.RoleAdmin, Status: domain.StatusActive},
			want: []string{"Disable", "Make member", "Reset link"},
		},
		{
			name:   "self",
			acct:   domain.Account{ID: "me", Role: domain.RoleAdmin, Status: domain.StatusActive},
			selfID: "me",
			want:   []string{"Reset link"},
		},
		{
			name: "legacy approve status",
			acct: domain.Account{ID: "a", Role: domain.RoleUser, Status: domain.StatusApprove},
			want: []string{"Disable", "Make admin", "Reset link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(actionsFor(tt.acct, tt.selfID))
			if len(got) != len(tt.want) {
				t.Fatalf("actionsFor() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("actionsFor() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	if statusLabel(domain.StatusApprove) != "Active" {
		t.Fatalf("approve should read as active")
	}
	if statusLabel(domain.StatusPending) != "Awaiting approval" {
		t.Fatalf("unexpected pending label")
	}
}
