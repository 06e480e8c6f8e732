package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/fyulita/FairKeep/pkg/token"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// Service handles user business logic
type Service struct {
	repo   *Repository
	tokens *token.Manager
}

// NewService creates a new user service
func NewService(repo *Repository, tokens *token.Manager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and returns it with a fresh token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, string, error) {
	if len(req.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, req.Username, req.FirstName, req.LastName, string(hash))
	if err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Login verifies the credentials and returns the user with a fresh token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies the caller's own profile
func (s *Service) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *Service) ChangePassword(ctx context.Context, id int64, req *ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, id, string(hash))
}
