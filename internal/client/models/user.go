// Package models defines the domain types shared by the CasePort client:
// users, roles and invite records.
package models

import (
	"encoding/json"
	"fmt"
)

// Role classifies a user and determines which views are reachable.
// It is a closed set: anything the server sends outside of it (including the
// back-office ADMIN role) is rejected at parse time instead of leaking into
// the session as a free-form string.
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleFeeEarner Role = "FEE_EARNER"
)

// ParseRole validates a wire-level role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleFeeEarner:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON enforces the closed role set on every decoded payload.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the account record as served by the platform. The role is
// immutable after creation; the ID is an opaque server-issued identifier.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
