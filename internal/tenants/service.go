package tenants

import (
	"context"

	"github.com/meridian-iam/meridian/internal/password"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
	"github.com/meridian-iam/meridian/internal/token"
)

// Service handles tenant registration.
type Service struct {
	repo   RepositoryPort
	rolesd roles.Directory
	policy *password.Policy
	tokens *token.Service
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, rolesd roles.Directory, policy *password.Policy, tokens *token.Service) *Service {
	return &Service{repo: repo, rolesd: rolesd, policy: policy, tokens: tokens}
}

// RegisterInput describes a tenant registration request.
type RegisterInput struct {
	TenantName    string
	Slug          string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// RegisterResult carries the new tenant, its admin, and a token for the admin.
type RegisterResult struct {
	Token  string        `json:"token"`
	Tenant TenantSummary `json:"tenant"`
	Admin  AdminSummary  `json:"admin"`
}

// TenantSummary is the public shape of a tenant.
type TenantSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AdminSummary is the public shape of the first admin user.
type AdminSummary struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  roles.Name `json:"role"`
}

// Register creates a tenant and its first admin user atomically, then issues
// a token for the new admin. The admin role must already be seeded.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if !s.policy.IsStrong(input.AdminPassword) {
		return nil, shared.ErrWeakPassword
	}

	adminRole, err := s.rolesd.GetByName(ctx, roles.Admin)
	if err != nil {
		return nil, err
	}

	hash, err := s.policy.Hash(input.AdminPassword)
	if err != nil {
		return nil, err
	}

	tenant, adminID, err := s.repo.CreateWithAdmin(ctx,
		Tenant{Name: input.TenantName, Slug: input.Slug},
		AdminSeed{Name: input.AdminName, Email: input.AdminEmail, PasswordHash: hash, RoleID: adminRole.ID},
	)
	if err != nil {
		return nil, err
	}

	signed, err := s.tokens.Issue(adminID, &tenant.ID, roles.Admin)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		Token:  signed,
		Tenant: TenantSummary{ID: tenant.ID, Name: tenant.Name, Slug: tenant.Slug},
		Admin:  AdminSummary{ID: adminID, Name: input.AdminName, Email: input.AdminEmail, Role: roles.Admin},
	}, nil
}
