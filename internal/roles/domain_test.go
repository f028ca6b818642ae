package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-iam/meridian/internal/shared"
)

func TestParse(t *testing.T) {
	for _, name := range All() {
		parsed, err := Parse(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, parsed)
	}

	for _, raw := range []string{"", "root", "ADMIN", "super-admin", "manager"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, shared.ErrInvalidRole, "raw=%q", raw)
	}
}

func TestAssignable(t *testing.T) {
	assert.False(t, SuperAdmin.Assignable())
	for _, name := range All() {
		if name == SuperAdmin {
			continue
		}
		assert.True(t, name.Assignable(), "role=%s", name)
	}
}

type stubDirectory struct {
	roles   []Role
	listErr error
}

func (s *stubDirectory) GetByName(ctx context.Context, name Name) (Role, error) {
	for _, role := range s.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, shared.ErrRoleNotSeeded
}

func (s *stubDirectory) List(ctx context.Context) ([]Role, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.roles, nil
}

func TestMissing(t *testing.T) {
	ctx := context.Background()

	full := &stubDirectory{}
	for i, name := range All() {
		full.roles = append(full.roles, Role{ID: int64(i + 1), Name: name})
	}
	missing, err := Missing(ctx, full)
	require.NoError(t, err)
	assert.Empty(t, missing)

	partial := &stubDirectory{roles: []Role{{ID: 1, Name: SuperAdmin}, {ID: 2, Name: Admin}}}
	missing, err = Missing(ctx, partial)
	require.NoError(t, err)
	assert.Equal(t, []Name{HRManager, Accountant, InventoryManager, Employee, Viewer}, missing)

	listErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	_, err = Missing(ctx, &stubDirectory{listErr: listErr})
	assert.ErrorIs(t, err, listErr)
}
