package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mzaikin/caseport/internal/client/models"
	"github.com/mzaikin/caseport/internal/client/session"
)

func snap(loading bool, token string, user *models.User) session.Snapshot {
	return session.Snapshot{Token: token, User: user, Loading: loading}
}

func user(role models.Role) *models.User {
	return &models.User{ID: "u1", Email: "x@y.com", FullName: "X Y", Role: role}
}

func TestDecide_DecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		snap     session.Snapshot
		required models.Role
		want     Decision
	}{
		{"loading pending", snap(true, "", nil), models.RoleClient, Pending},
		{"loading pending even with session", snap(true, "tok", user(models.RoleClient)), models.RoleClient, Pending},
		{"no token no user", snap(false, "", nil), models.RoleClient, RedirectLogin},
		{"no token any role", snap(false, "", nil), AnyRole, RedirectLogin},
		{"token without resolved user", snap(false, "tok", nil), models.RoleClient, RedirectLogin},
		{"user without token", snap(false, "", user(models.RoleClient)), models.RoleClient, RedirectLogin},
		{"role mismatch client on fee-earner view", snap(false, "tok", user(models.RoleClient)), models.RoleFeeEarner, RedirectUnauthorized},
		{"role mismatch fee-earner on client view", snap(false, "tok", user(models.RoleFeeEarner)), models.RoleClient, RedirectUnauthorized},
		{"role match client", snap(false, "tok", user(models.RoleClient)), models.RoleClient, Render},
		{"role match fee-earner", snap(false, "tok", user(models.RoleFeeEarner)), models.RoleFeeEarner, Render},
		{"any role with session", snap(false, "tok", user(models.RoleClient)), AnyRole, Render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.snap, tt.required))
		})
	}
}

func TestDecide_NoCachingAcrossNavigations(t *testing.T) {
	u := user(models.RoleClient)

	require.Equal(t, Render, Decide(snap(false, "tok", u), models.RoleClient))

	// A logout between navigations must flip the decision.
	require.Equal(t, RedirectLogin, Decide(snap(false, "", nil), models.RoleClient))
}
