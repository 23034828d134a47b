package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

const userColumns = `id, username, full_name, password_hash, role, created_at`

type UserRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository creates a PostgreSQL backed user repository
func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{pool: pool, logger: logger}
}

func (r *UserRepository) Save(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE
		 SET username=EXCLUDED.username, full_name=EXCLUDED.full_name,
		     password_hash=EXCLUDED.password_hash, role=EXCLUDED.role`,
		user.ID, user.Username, user.FullName, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username %q: %w", user.Username, domain.ErrAlreadyExists)
		}
		r.logger.Error("Failed to save user", zap.Error(err), zap.String("user_id", user.ID))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	saved := *user
	return &saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.pool, "users", id)
	if err != nil {
		r.logger.Error("Failed to check user existence", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}
	return ok, nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY username`, role)
	if err != nil {
		r.logger.Error("Failed to find users by role", zap.Error(err), zap.String("role", string(role)))
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	out := []*entities.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	n, err := deleteByID(ctx, r.pool, "users", id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entities.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	u := &entities.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}
