package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	q := GetQuerier(ctx, r.db)

	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id.String()
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailExists
		}
		return err
	}

	return nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
		&u.EmployeeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`

	var u user.User
	err := q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
		&u.EmployeeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// GetByRole implements user.UserRepository.
func (r *userRepositoryImpl) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, password_hash, role, is_active, created_at, updated_at
		FROM users
		WHERE role = $1 AND is_active = TRUE
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req *user.UpdateUserRequest) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			role = COALESCE($4, role),
			is_active = COALESCE($5, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, is_active, created_at, updated_at
	`

	var u user.User
	err := q.QueryRow(ctx, query,
		req.ID, req.Name, req.Email, req.Role, req.IsActive,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, user.ErrEmailExists
		}
		return nil, err
	}

	return &u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active,
			   u.created_at, u.updated_at,
			   e.id AS employee_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		ORDER BY u.created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt,
			&u.EmployeeID,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
