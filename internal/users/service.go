package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-iam/meridian/internal/auth"
	"github.com/meridian-iam/meridian/internal/password"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
)

// Service handles the user lifecycle under role- and tenant-scoped
// authorization. Every operation takes the acting principal as rebuilt by the
// guard from live state.
type Service struct {
	repo    RepositoryPort
	tenants TenantDirectory
	rolesd  roles.Directory
	policy  *password.Policy
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, tenants TenantDirectory, rolesd roles.Directory, policy *password.Policy) *Service {
	return &Service{repo: repo, tenants: tenants, rolesd: rolesd, policy: policy}
}

// CreateInput describes a user creation request.
type CreateInput struct {
	TenantSlug string
	Name       string
	Email      string
	Password   string
	Role       string
}

// UpdateInput describes a partial user mutation. Nil fields keep current
// values.
type UpdateInput struct {
	Name  *string
	Email *string
	Role  *string
}

// Create persists a new user under the target tenant. super_admin actors
// name the tenant by slug; admin actors always create within their own.
func (s *Service) Create(ctx context.Context, actor auth.Principal, input CreateInput) (User, error) {
	if !s.policy.IsStrong(input.Password) {
		return User{}, shared.ErrWeakPassword
	}

	var tenantID int64
	if actor.IsSuperAdmin() {
		if input.TenantSlug == "" {
			return User{}, fmt.Errorf("%w: tenant slug required", shared.ErrValidation)
		}
		id, err := s.tenants.GetIDBySlug(ctx, input.TenantSlug)
		if err != nil {
			return User{}, err
		}
		tenantID = id
	} else {
		if actor.TenantID == nil {
			return User{}, shared.ErrForbidden
		}
		tenantID = *actor.TenantID
	}

	role, err := s.resolveAssignableRole(ctx, input.Role)
	if err != nil {
		return User{}, err
	}

	hash, err := s.policy.Hash(input.Password)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, NewUser{
		TenantID:     tenantID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	})
}

// UpdateUser applies a partial mutation to another account. Self-modification
// through this path is forbidden, as is granting super_admin.
func (s *Service) UpdateUser(ctx context.Context, actor auth.Principal, targetID int64, input UpdateInput) (User, error) {
	if actor.UserID == targetID {
		return User{}, fmt.Errorf("%w: cannot modify own account", shared.ErrForbidden)
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return User{}, err
	}
	if target.IsDeleted() {
		return User{}, shared.ErrNotFound
	}
	if err := s.checkTenantScope(actor, target); err != nil {
		return User{}, err
	}

	update := Update{Name: input.Name, Email: input.Email}
	if input.Role != nil {
		role, err := s.resolveAssignableRole(ctx, *input.Role)
		if err != nil {
			return User{}, err
		}
		update.RoleID = &role.ID
	}

	return s.repo.Update(ctx, targetID, update)
}

// DeleteUser soft-deletes another account by setting its deletion timestamp.
func (s *Service) DeleteUser(ctx context.Context, actor auth.Principal, targetID int64) error {
	if actor.UserID == targetID {
		return fmt.Errorf("%w: cannot delete own account", shared.ErrForbidden)
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.checkTenantScope(actor, target); err != nil {
		return err
	}

	now := time.Now()
	return s.repo.SetDeletedAt(ctx, targetID, &now)
}

// RestoreUser clears the deletion timestamp of a soft-deleted account.
// Restoring an already-active account fails with not-found to signal the
// wrong lifecycle state.
func (s *Service) RestoreUser(ctx context.Context, actor auth.Principal, targetID int64) error {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !target.IsDeleted() {
		return shared.ErrNotFound
	}
	if err := s.checkTenantScope(actor, target); err != nil {
		return err
	}

	return s.repo.SetDeletedAt(ctx, targetID, nil)
}

// List returns non-deleted users visible to the actor: all tenants for
// super_admin, the actor's own tenant otherwise.
func (s *Service) List(ctx context.Context, actor auth.Principal) ([]User, error) {
	if actor.IsSuperAdmin() {
		return s.repo.List(ctx, nil)
	}
	if actor.TenantID == nil {
		return nil, shared.ErrForbidden
	}
	return s.repo.List(ctx, actor.TenantID)
}

// ChangePassword replaces the actor's own credential after verifying the old
// one against the stored hash.
func (s *Service) ChangePassword(ctx context.Context, actor auth.Principal, oldPassword, newPassword string) error {
	if !s.policy.IsStrong(newPassword) {
		return shared.ErrWeakPassword
	}

	current, err := s.repo.GetPasswordHash(ctx, actor.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !s.policy.Verify(oldPassword, current) {
		return fmt.Errorf("%w: old password incorrect", shared.ErrInvalidCredentials)
	}

	hash, err := s.policy.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.SetPasswordHash(ctx, actor.UserID, hash)
}

// checkTenantScope enforces that non-super_admin actors only touch accounts
// within their own tenant.
func (s *Service) checkTenantScope(actor auth.Principal, target *User) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	if actor.TenantID == nil || target.TenantID == nil || *target.TenantID != *actor.TenantID {
		return shared.ErrForbidden
	}
	return nil
}

// resolveAssignableRole parses a role name against the closed set and rejects
// the non-grantable super_admin tier before resolving the reference row.
func (s *Service) resolveAssignableRole(ctx context.Context, raw string) (roles.Role, error) {
	name, err := roles.Parse(raw)
	if err != nil {
		return roles.Role{}, err
	}
	if !name.Assignable() {
		return roles.Role{}, fmt.Errorf("%w: role %s is not grantable", shared.ErrForbidden, name)
	}
	return s.rolesd.GetByName(ctx, name)
}
