package auth

import (
	"context"
	"errors"

	"github.com/meridian-iam/meridian/internal/password"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
	"github.com/meridian-iam/meridian/internal/token"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	policy *password.Policy
	tokens *token.Service
}

// NewService constructs a new Service.
func NewService(repo Repository, policy *password.Policy, tokens *token.Service) *Service {
	return &Service{repo: repo, policy: policy, tokens: tokens}
}

// LoginResult carries the issued token and a minimal profile.
type LoginResult struct {
	Token string       `json:"token"`
	User  LoginProfile `json:"user"`
}

// LoginProfile is the minimal identity returned at login.
type LoginProfile struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Role roles.Name `json:"role"`
}

// Login resolves a login attempt to a verified identity and issues a token.
// A tenant slug scopes the lookup to that tenant; without one the lookup is
// tenant-less and matches only super_admin accounts. Unknown slug, unknown
// email, and wrong password all return the same error so callers cannot
// learn which half failed. Directory failures that are not a missing record
// propagate as-is rather than posing as a credential problem.
func (s *Service) Login(ctx context.Context, slug, email, pw string) (*LoginResult, error) {
	var user *User
	var tenantID *int64

	if slug != "" {
		id, err := s.repo.GetTenantIDBySlug(ctx, slug)
		if err != nil {
			return nil, credentialOrInfra(err)
		}
		user, err = s.repo.FindActiveByEmail(ctx, email, id)
		if err != nil {
			return nil, credentialOrInfra(err)
		}
		tenantID = &id
	} else {
		var err error
		user, err = s.repo.FindActiveSuperAdmin(ctx, email)
		if err != nil {
			return nil, credentialOrInfra(err)
		}
	}

	if !s.policy.Verify(pw, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, tenantID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: signed,
		User:  LoginProfile{ID: user.ID, Name: user.Name, Role: user.Role},
	}, nil
}

// credentialOrInfra folds missing-record lookups into the uniform credential
// error and lets any other repository failure through untouched.
func credentialOrInfra(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrInvalidCredentials
	}
	return err
}
