package models

// Invite is the record an invite token resolves to: a pre-provisioned email
// and the role the new account will be created with. It lives only for the
// duration of the registration form and is never persisted.
type Invite struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
