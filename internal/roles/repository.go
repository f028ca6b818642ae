package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-iam/meridian/internal/shared"
)

// Directory resolves role references from the persistent store.
type Directory interface {
	GetByName(ctx context.Context, name Name) (Role, error)
	List(ctx context.Context) ([]Role, error)
}

// Repository provides PostgreSQL backed role lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByName fetches a role row by its name. A missing row means the seed has
// not run, which is a configuration fault rather than a caller error.
func (r *Repository) GetByName(ctx context.Context, name Name) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE name = $1`, string(name)).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrRoleNotSeeded
		}
		return Role{}, err
	}
	return role, nil
}

// List returns all seeded roles ordered by id.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

var _ Directory = (*Repository)(nil)

// Missing reports which role names are absent from the persisted catalog.
// A non-empty result means the seed has not run or ran against another
// database.
func Missing(ctx context.Context, dir Directory) ([]Name, error) {
	seeded, err := dir.List(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[Name]bool, len(seeded))
	for _, role := range seeded {
		present[role.Name] = true
	}
	var missing []Name
	for _, name := range All() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
