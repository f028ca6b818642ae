package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	GetTenantIDBySlug(ctx context.Context, slug string) (int64, error)
	FindActiveByEmail(ctx context.Context, email string, tenantID int64) (*User, error)
	FindActiveSuperAdmin(ctx context.Context, email string) (*User, error)
	FindActiveByID(ctx context.Context, id int64) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `u.id, u.tenant_id, u.name, u.email, u.password_hash, r.name, u.deleted_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var role string
	err := row.Scan(&user.ID, &user.TenantID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role = roles.Name(role)
	return &user, nil
}

// GetTenantIDBySlug resolves a tenant id by its slug.
func (r *PGRepository) GetTenantIDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM tenants WHERE slug = $1`, slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// FindActiveByEmail fetches a non-deleted user by email within a tenant.
func (r *PGRepository) FindActiveByEmail(ctx context.Context, email string, tenantID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1 AND u.tenant_id = $2 AND u.deleted_at IS NULL`, email, tenantID)
	return scanUser(row)
}

// FindActiveSuperAdmin fetches a non-deleted super_admin by email without a
// tenant filter.
func (r *PGRepository) FindActiveSuperAdmin(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1 AND r.name = $2 AND u.deleted_at IS NULL`, email, roles.SuperAdmin.String())
	return scanUser(row)
}

// FindActiveByID fetches a non-deleted user by id.
func (r *PGRepository) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1 AND u.deleted_at IS NULL`, id)
	return scanUser(row)
}

var _ Repository = (*PGRepository)(nil)
