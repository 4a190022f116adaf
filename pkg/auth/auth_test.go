package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	t.Parallel()
	admin := Principal{UserID: 1, Role: RoleAdmin}
	librarian := Principal{UserID: 2, Role: RoleLibrarian}
	member := Principal{UserID: 7, Role: RoleMember}

	var tests = []struct {
		name string
		op   Op
		p    Principal
		want bool
	}{
		{"librarian issues loans", OpLoanIssue, librarian, true},
		{"member may not issue loans", OpLoanIssue, member, false},
		{"only members create requests", OpRequestCreate, member, true},
		{"librarian may not create requests", OpRequestCreate, librarian, false},
		{"admin may not create requests", OpRequestCreate, admin, false},
		{"dashboard is admin only", OpDashboard, admin, true},
		{"dashboard denied to librarian", OpDashboard, librarian, false},
		{"user creation is admin only", OpUserCreate, librarian, false},
		{"my-books is member only", OpMyBooks, member, true},
		{"unknown op denied", Op("no:such"), admin, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Allowed(tt.op, tt.p))
		})
	}
}

func TestAllowedFor(t *testing.T) {
	t.Parallel()
	librarian := Principal{UserID: 2, Role: RoleLibrarian}
	member := Principal{UserID: 7, Role: RoleMember}

	var tests = []struct {
		name    string
		op      Op
		p       Principal
		ownerID int
		want    bool
	}{
		{"owner views own fines", OpFinesView, member, 7, true},
		{"member denied another member's fines", OpFinesView, member, 8, false},
		{"librarian views any member's fines", OpFinesView, librarian, 8, true},
		{"ownership does not extend to non-owner ops", OpDashboard, member, 7, false},
		{"owner settles own payment", OpPaymentCreate, member, 7, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, AllowedFor(tt.op, tt.p, tt.ownerID))
		})
	}
}

func TestIssueParseToken(t *testing.T) {
	t.Parallel()
	cfg := Config{Secret: "test_secret", TTL: time.Hour}
	p := Principal{UserID: 7, Role: RoleMember}

	token, expiresAt, err := IssueToken(cfg, p)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	got, err := ParseToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()
	token, _, err := IssueToken(Config{Secret: "test_secret", TTL: time.Hour}, Principal{UserID: 7, Role: RoleMember})
	require.NoError(t, err)

	_, err = ParseToken(Config{Secret: "other_secret", TTL: time.Hour}, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()
	cfg := Config{Secret: "test_secret", TTL: -time.Hour}
	token, _, err := IssueToken(cfg, Principal{UserID: 7, Role: RoleMember})
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}
