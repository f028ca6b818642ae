package tenants

import "time"

// Tenant is an isolated customer organization identified by a unique slug.
type Tenant struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// AdminSeed describes the first administrative user created together with a
// new tenant.
type AdminSeed struct {
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
}
