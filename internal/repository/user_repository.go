package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type UserRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewUserRepository(db DBTX, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, email, password_hash, created_at`

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "User lookup failed", map[string]interface{}{where: arg, "error": err.Error()})
		return nil, wrap("user lookup failed", err)
	}

	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Users could not be listed", map[string]interface{}{"error": err.Error()})
		return nil, wrap("users could not be listed", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, wrap("user row could not be read", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("user rows could not be read", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	user.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "User could not be created", map[string]interface{}{"username": user.Username, "error": err.Error()})
		return wrap("user could not be created", err)
	}

	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "User could not be updated", map[string]interface{}{"id": user.ID, "error": err.Error()})
		return wrap("user could not be updated", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "User could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("user could not be deleted", err)
	}

	return nil
}
