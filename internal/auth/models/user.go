package models

import "github.com/google/uuid"

// Role controls dashboard access. Admins have full access; standard staff
// can read submissions and change their status but cannot touch settings or
// user management.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// NormalizeRole maps arbitrary input to a valid role, defaulting to admin.
func NormalizeRole(raw string) Role {
	if raw == string(RoleStandard) {
		return RoleStandard
	}
	return RoleAdmin
}

// AdminUser is a staff credential record. PasswordHash never leaves the auth
// operations; every outward-facing view goes through Public().
type AdminUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         Role
}

// PublicUser is the hash-free view of an AdminUser.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

func (u *AdminUser) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
