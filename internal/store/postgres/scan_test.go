package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestUUIDOrEmpty(t *testing.T) {
	b := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	got := uuidOrEmpty(pgtype.UUID{Bytes: b, Valid: true})
	if got != "12345678-9abc-def0-0123-456789abcdef" {
		t.Fatalf("unexpected uuid string: %s", got)
	}
	if uuidOrEmpty(pgtype.UUID{}) != "" {
		t.Fatalf("expected empty string for null uuid")
	}
}

func TestValidID(t *testing.T) {
	if !validID("12345678-9abc-def0-0123-456789abcdef") {
		t.Fatalf("expected uuid to be valid")
	}
	for _, s := range []string{"", "user-1", "12345678"} {
		if validID(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{7, 7},
		{500, 100},
	}
	for _, tc := range cases {
		if got := clampLimit(tc.in, 20, 100); got != tc.want {
			t.Fatalf("clampLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
