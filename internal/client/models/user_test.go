package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("CLIENT")
	require.NoError(t, err)
	require.Equal(t, RoleClient, r)

	r, err = ParseRole("FEE_EARNER")
	require.NoError(t, err)
	require.Equal(t, RoleFeeEarner, r)
}

func TestParseRole_Unknown(t *testing.T) {
	for _, s := range []string{"", "ADMIN", "client", "fee_earner", "OWNER"} {
		_, err := ParseRole(s)
		require.Error(t, err, "role %q must not parse", s)
	}
}

func TestUser_UnmarshalRejectsUnknownRole(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":"1","email":"a@b.com","full_name":"A","role":"ADMIN"}`), &u)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"id":"1","email":"a@b.com","full_name":"A","role":"CLIENT"}`), &u)
	require.NoError(t, err)
	require.Equal(t, RoleClient, u.Role)
}
