// Package roles models the fixed set of authorization tiers. The set is
// immutable reference data seeded once; unrecognized names are rejected at
// the boundary instead of deep inside business logic.
package roles

import (
	"fmt"

	"github.com/meridian-iam/meridian/internal/shared"
)

// Name identifies an authorization tier.
type Name string

const (
	SuperAdmin       Name = "super_admin"
	Admin            Name = "admin"
	HRManager        Name = "hr_manager"
	Accountant       Name = "accountant"
	InventoryManager Name = "inventory_manager"
	Employee         Name = "employee"
	Viewer           Name = "viewer"
)

// All lists every role in the closed set, in seed order.
func All() []Name {
	return []Name{SuperAdmin, Admin, HRManager, Accountant, InventoryManager, Employee, Viewer}
}

// Parse maps a raw role name to its closed-set value.
func Parse(raw string) (Name, error) {
	for _, name := range All() {
		if string(name) == raw {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", shared.ErrInvalidRole, raw)
}

// Assignable reports whether the role may be granted through the lifecycle
// API. super_admin is never grantable; only the initial seed creates one.
func (n Name) Assignable() bool {
	return n != SuperAdmin
}

// String returns the persisted role name.
func (n Name) String() string {
	return string(n)
}

// Role is a persisted role reference row.
type Role struct {
	ID   int64
	Name Name
}
