package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
)

// RepositoryPort defines data access methods for the user lifecycle.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user NewUser) (User, error)
	Update(ctx context.Context, id int64, update Update) (User, error)
	SetDeletedAt(ctx context.Context, id int64, at *time.Time) error
	List(ctx context.Context, tenantID *int64) ([]User, error)
	GetPasswordHash(ctx context.Context, id int64) (string, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}

// TenantDirectory resolves tenants by slug for super_admin created users.
type TenantDirectory interface {
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

const userColumns = `u.id, u.tenant_id, u.name, u.email, r.name, u.created_at, u.updated_at, u.deleted_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	var role string
	err := row.Scan(&user.ID, &user.TenantID, &user.Name, &user.Email, &role, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	user.Role = roles.Name(role)
	return user, nil
}

// FindByID fetches a user by id, including soft-deleted records.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user under a tenant. Duplicate emails within the tenant
// surface as shared.ErrConflict.
func (r *Repository) Create(ctx context.Context, user NewUser) (User, error) {
	row := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO users (tenant_id, name, email, password_hash, role_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id, tenant_id, name, email, role_id, created_at, updated_at, deleted_at
		)
		SELECT u.id, u.tenant_id, u.name, u.email, r.name, u.created_at, u.updated_at, u.deleted_at
		FROM inserted u JOIN roles r ON r.id = u.role_id`,
		user.TenantID, user.Name, user.Email, user.PasswordHash, user.RoleID)
	created, err := scanUser(row)
	if err != nil {
		return User{}, conflictOr(err)
	}
	return created, nil
}

// Update applies a partial mutation and returns the updated record.
func (r *Repository) Update(ctx context.Context, id int64, update Update) (User, error) {
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE users SET
				name = COALESCE($2, name),
				email = COALESCE($3, email),
				role_id = COALESCE($4, role_id),
				updated_at = NOW()
			WHERE id = $1
			RETURNING id, tenant_id, name, email, role_id, created_at, updated_at, deleted_at
		)
		SELECT u.id, u.tenant_id, u.name, u.email, r.name, u.created_at, u.updated_at, u.deleted_at
		FROM updated u JOIN roles r ON r.id = u.role_id`,
		id, update.Name, update.Email, update.RoleID)
	updated, err := scanUser(row)
	if err != nil {
		return User{}, conflictOr(err)
	}
	return updated, nil
}

// SetDeletedAt marks or clears the soft-delete timestamp.
func (r *Repository) SetDeletedAt(ctx context.Context, id int64, at *time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET deleted_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns non-deleted users, optionally scoped to one tenant.
func (r *Repository) List(ctx context.Context, tenantID *int64) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.deleted_at IS NULL`
	args := []any{}
	if tenantID != nil {
		query += ` AND u.tenant_id = $1`
		args = append(args, *tenantID)
	}
	query += ` ORDER BY u.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// GetPasswordHash fetches the stored credential hash for a user.
func (r *Repository) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

// SetPasswordHash replaces the stored credential hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func conflictOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
