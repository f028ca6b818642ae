package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-iam/meridian/internal/platform/db"
	"github.com/meridian-iam/meridian/internal/shared"
)

// RepositoryPort defines persistence operations for tenant registration.
type RepositoryPort interface {
	CreateWithAdmin(ctx context.Context, tenant Tenant, admin AdminSeed) (Tenant, int64, error)
	GetIDBySlug(ctx context.Context, slug string) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateWithAdmin inserts the tenant and its first admin user as a single
// transactional unit. A partially created pair is never observable: the
// transaction rolls back on any failure. Slug or email uniqueness violations
// surface as shared.ErrConflict.
func (r *Repository) CreateWithAdmin(ctx context.Context, tenant Tenant, admin AdminSeed) (Tenant, int64, error) {
	var created Tenant
	var adminID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO tenants (name, slug, created_at)
			VALUES ($1, $2, NOW())
			RETURNING id, name, slug, created_at`, tenant.Name, tenant.Slug).
			Scan(&created.ID, &created.Name, &created.Slug, &created.CreatedAt)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO users (tenant_id, name, email, password_hash, role_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id`, created.ID, admin.Name, admin.Email, admin.PasswordHash, admin.RoleID).
			Scan(&adminID)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Tenant{}, 0, fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
		}
		return Tenant{}, 0, err
	}
	return created, adminID, nil
}

// GetIDBySlug resolves a tenant id by its unique slug.
func (r *Repository) GetIDBySlug(ctx context.Context, slug string) (int64, error) {
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

var _ RepositoryPort = (*Repository)(nil)

