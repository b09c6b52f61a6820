package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/isdelr/taskdeck-be/internal/models"
	"github.com/isdelr/taskdeck-be/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	Register(ctx context.Context, username, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	users *store.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users *store.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Register validates the registration payload and creates a new user with
// a hashed password. Validation failures are reported per field.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	fieldErrs := FieldErrors{}
	if username == "" {
		fieldErrs["username"] = "this field is required"
	}
	if email == "" {
		fieldErrs["email"] = "this field is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs["email"] = "enter a valid email address"
	}
	if len(password) < minPasswordLength {
		fieldErrs["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}

	if username != "" {
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			fieldErrs["username"] = "a user with that username already exists"
		}
	}
	if email != "" && fieldErrs["email"] == "" {
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			fieldErrs["email"] = "a user with that email already exists"
		}
	}
	if len(fieldErrs) > 0 {
		return models.User{}, fieldErrs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a registration race after the pre-checks passed.
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			return models.User{}, FieldErrors{"username": "a user with that username already exists"}
		case errors.Is(err, store.ErrEmailTaken):
			return models.User{}, FieldErrors{"email": "a user with that email already exists"}
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
