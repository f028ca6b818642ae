package auth

import (
	"time"

	"github.com/meridian-iam/meridian/internal/roles"
)

// User is the credential-bearing account record as the auth module sees it.
type User struct {
	ID           int64
	TenantID     *int64
	Name         string
	Email        string
	PasswordHash string
	Role         roles.Name
	DeletedAt    *time.Time
}

// Principal is the authenticated context for a request. It is rebuilt on
// every request from the live user record, so a role change or soft-deletion
// takes effect immediately even while the original token is still valid.
type Principal struct {
	UserID    int64      `json:"user_id"`
	TenantID  *int64     `json:"tenant_id"`
	Role      roles.Name `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// IsSuperAdmin reports whether the principal holds the tenant-less tier.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == roles.SuperAdmin
}
