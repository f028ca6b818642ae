package users

import (
	"time"

	"github.com/meridian-iam/meridian/internal/roles"
)

// User is the public shape of an account. Credential hashes never leave the
// repository layer through this type.
type User struct {
	ID        int64      `json:"id"`
	TenantID  *int64     `json:"tenant_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      roles.Name `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the account is soft-deleted.
func (u User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// NewUser describes a user row to insert.
type NewUser struct {
	TenantID     int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
}

// Update describes a partial user mutation. Nil fields keep current values.
type Update struct {
	Name   *string
	Email  *string
	RoleID *int64
}
