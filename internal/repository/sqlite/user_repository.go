package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	profile_img TEXT NOT NULL DEFAULT '',
	cover_img TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, full_name, email, password_hash, bio, link, profile_img, cover_img, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.Link,
		user.ProfileImg,
		user.CoverImg,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("insert user: %w", repository.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const selectUserColumns = `
SELECT id, username, full_name, email, password_hash, bio, link, profile_img, cover_img, created_at, updated_at
FROM users`

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE username = ?`, username)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, id string, upd repository.UserUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("full_name", upd.FullName)
	add("username", upd.Username)
	add("email", upd.Email)
	add("bio", upd.Bio)
	add("link", upd.Link)
	add("profile_img", upd.ProfileImg)
	add("cover_img", upd.CoverImg)
	add("password_hash", upd.PasswordHash)

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("update user: %w", repository.ErrConflict)
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) SampleOthers(ctx context.Context, excludeID string, limit int) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		selectUserColumns+` WHERE id != ? ORDER BY RANDOM() LIMIT ?`, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("sample users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sample users: %w", err)
	}
	return users, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.Link,
		&user.ProfileImg,
		&user.CoverImg,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
