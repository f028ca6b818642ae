package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-iam/meridian/internal/password"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
	"github.com/meridian-iam/meridian/internal/token"
)

type stubRepo struct {
	tenants map[string]int64
	users   []*User
	failErr error
}

func (s *stubRepo) GetTenantIDBySlug(ctx context.Context, slug string) (int64, error) {
	if s.failErr != nil {
		return 0, s.failErr
	}
	id, ok := s.tenants[slug]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (s *stubRepo) FindActiveByEmail(ctx context.Context, email string, tenantID int64) (*User, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	for _, u := range s.users {
		if u.Email == email && u.TenantID != nil && *u.TenantID == tenantID && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindActiveSuperAdmin(ctx context.Context, email string) (*User, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	for _, u := range s.users {
		if u.Email == email && u.Role == roles.SuperAdmin && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	for _, u := range s.users {
		if u.ID == id && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newLoginService(t *testing.T, repo Repository) (*Service, *token.Service) {
	t.Helper()
	tokens := token.NewService("test-secret", "meridian-test", time.Hour)
	return NewService(repo, password.NewPolicy(bcrypt.MinCost), tokens), tokens
}

func TestLoginWithSlug(t *testing.T) {
	acmeID := int64(10)
	repo := &stubRepo{
		tenants: map[string]int64{"acme": acmeID},
		users: []*User{{
			ID: 1, TenantID: &acmeID, Name: "Acme Admin", Email: "admin@acme.test",
			PasswordHash: mustHash(t, "Sup3r$afe"), Role: roles.Admin,
		}},
	}
	svc, tokens := newLoginService(t, repo)

	result, err := svc.Login(context.Background(), "acme", "admin@acme.test", "Sup3r$afe")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.User.ID)
	assert.Equal(t, roles.Admin, result.User.Role)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, acmeID, *claims.TenantID)
	assert.Equal(t, roles.Admin, claims.Role)
}

func TestLoginTenantlessSuperAdmin(t *testing.T) {
	repo := &stubRepo{
		tenants: map[string]int64{},
		users: []*User{{
			ID: 1, Name: "Root", Email: "root@meridian.local",
			PasswordHash: mustHash(t, "Root2025@"), Role: roles.SuperAdmin,
		}},
	}
	svc, tokens := newLoginService(t, repo)

	result, err := svc.Login(context.Background(), "", "root@meridian.local", "Root2025@")
	require.NoError(t, err)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Equal(t, roles.SuperAdmin, claims.Role)
}

func TestLoginFailureLegsAreIndistinguishable(t *testing.T) {
	acmeID := int64(10)
	repo := &stubRepo{
		tenants: map[string]int64{"acme": acmeID},
		users: []*User{{
			ID: 1, TenantID: &acmeID, Email: "admin@acme.test",
			PasswordHash: mustHash(t, "Sup3r$afe"), Role: roles.Admin,
		}},
	}
	svc, _ := newLoginService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		slug  string
		email string
		pw    string
	}{
		{"unknown slug", "globex", "admin@acme.test", "Sup3r$afe"},
		{"unknown email", "acme", "nobody@acme.test", "Sup3r$afe"},
		{"wrong password", "acme", "admin@acme.test", "wrongpass"},
		{"tenant user via tenantless login", "", "admin@acme.test", "Sup3r$afe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.slug, tt.email, tt.pw)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestLoginPropagatesDirectoryFailures(t *testing.T) {
	dialErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	repo := &stubRepo{failErr: dialErr}
	svc, _ := newLoginService(t, repo)
	ctx := context.Background()

	for _, slug := range []string{"acme", ""} {
		_, err := svc.Login(ctx, slug, "admin@acme.test", "Sup3r$afe")
		assert.ErrorIs(t, err, dialErr)
		assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
	}
}

func TestLoginExcludesSoftDeleted(t *testing.T) {
	acmeID := int64(10)
	deletedAt := time.Now()
	repo := &stubRepo{
		tenants: map[string]int64{"acme": acmeID},
		users: []*User{{
			ID: 1, TenantID: &acmeID, Email: "admin@acme.test",
			PasswordHash: mustHash(t, "Sup3r$afe"), Role: roles.Admin, DeletedAt: &deletedAt,
		}},
	}
	svc, _ := newLoginService(t, repo)

	_, err := svc.Login(context.Background(), "acme", "admin@acme.test", "Sup3r$afe")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
