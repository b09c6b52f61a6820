package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/isdelr/taskdeck-be/internal/models"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		// A concurrent registration can slip past the uniqueness
		// pre-checks; surface the constraint as a typed error.
		msg := err.Error()
		if strings.Contains(msg, "UNIQUE constraint failed") {
			switch {
			case strings.Contains(msg, "users.username"):
				return ErrUsernameTaken
			case strings.Contains(msg, "users.email"):
				return ErrEmailTaken
			}
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.get(ctx, "username", username)
}

func (r *UserRepository) get(ctx context.Context, column, value string) (models.User, error) {
	query := "SELECT id, username, email, password_hash, created_at FROM users WHERE " + column + " = ?"
	var user models.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE " + column + " = ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, value).Scan(&exists)
	return exists, err
}
