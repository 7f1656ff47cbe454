package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/metrics"
	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
	"github.com/shelfmark/shelfmark/internal/validate"
)

const minPasswordLength = 6

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// TokenIssuer issues session tokens for a user identifier.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService handles registration, login and profile retrieval.
type AuthService struct {
	users   UserStore
	tokens  TokenIssuer
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		metrics: recorder,
	}
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token string
	User  *model.User
}

// registerRules validates registration input. Every rule runs; all
// violations are reported together.
var registerRules = []validate.Rule{
	validate.Email("email"),
	validate.MinLength("password", minPasswordLength, "Password must be at least 6 characters long"),
}

// loginRules validates login input before any store access.
var loginRules = []validate.Rule{
	validate.Email("email"),
	validate.Required("password", "Password is required"),
}

// Register creates a new account and returns a freshly issued token
// alongside the created user.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if errs := validate.Run(map[string]string{"email": email, "password": password}, registerRules); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        validate.NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokenStr, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return &AuthResult{Token: tokenStr, User: user}, nil
}

// Login verifies credentials and returns a freshly issued token.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if errs := validate.Run(map[string]string{"email": email, "password": password}, loginRules); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	user, err := s.users.GetUserByEmail(ctx, validate.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	tokenStr, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &AuthResult{Token: tokenStr, User: user}, nil
}

// Profile returns the account record for an already-authenticated user.
// Fails with ErrUserNotFound if the record vanished after the auth gate
// resolved the identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}
