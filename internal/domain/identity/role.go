package identity

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the trust level the caller was resolved to by the auth layer.
// The coordinator only distinguishes members from admins.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
