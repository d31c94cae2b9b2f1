package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, subdomain, role, is_active, is_banned, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Subdomain,
		&u.Role, &u.IsActive, &u.IsBanned, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, subdomain, role, is_active, is_banned)
		VALUES ($1, $2, $3, lower($4), $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.Password, u.Subdomain, u.Role, u.IsActive, u.IsBanned)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)
	`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)
	`, username))
}

// FindTenant is the resolver's single read query: active, non-banned users
// only, matched case-insensitively on the subdomain label.
func (r *UserRepository) FindTenant(ctx context.Context, subdomain string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE subdomain = lower($1) AND is_active AND NOT is_banned
	`, subdomain))
}

func (r *UserRepository) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE subdomain = lower($1))
	`, subdomain).Scan(&taken)
	return taken, err
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))
	`, email).Scan(&taken)
	return taken, err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, subdomain = lower($4),
		    role = $5, is_active = $6, is_banned = $7, updated_at = $8
		WHERE id = $9
	`, u.Username, u.Email, u.Password, u.Subdomain, u.Role, u.IsActive, u.IsBanned, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	switch f.Status {
	case "active":
		where = append(where, "is_active AND NOT is_banned")
	case "banned":
		where = append(where, "is_banned")
	case "inactive":
		where = append(where, "NOT is_active")
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(lower(username) LIKE $%d OR lower(email) LIKE $%d OR subdomain LIKE $%d)", n, n, n))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	size := f.Size
	if size <= 0 || size > 100 {
		size = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	args = append(args, size, (page-1)*size)
	q := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Recent(ctx context.Context, limit int) ([]*entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Stats(ctx context.Context) (repository.UserStats, error) {
	var s repository.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active AND NOT is_banned),
		       count(*) FILTER (WHERE is_banned),
		       count(*) FILTER (WHERE role = 'SUPERADMIN')
		FROM users
	`).Scan(&s.TotalUsers, &s.ActiveUsers, &s.BannedUsers, &s.Superadmins)
	return s, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
