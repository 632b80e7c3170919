package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ecostudy/internal/models"
	"ecostudy/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest work factor accepted for stored passwords.
const MinBcryptCost = 10

// Domain errors for auth flows.
var (
	ErrInvalidInput       = models.ErrValidation
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	tokens *TokenManager
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService clamps cost to [MinBcryptCost, bcrypt.MaxCost].
func NewAuthService(users repository.Users, tokens *TokenManager, cost int) *AuthService {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &AuthService{users: users, tokens: tokens, cost: cost}
}

// SignUp validates input, hashes the password and stores a new user.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) error {
	u := &models.User{
		Name:  strings.TrimSpace(name),
		Email: models.NormalizeEmail(email),
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if err := u.Validate(); err != nil {
		return err
	}

	existing, err := s.users.GetByEmail(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return ErrDuplicateEmail
	}

	if err := s.users.Create(ctx, u); err != nil {
		// unique index catches a concurrent signup that passed the lookup
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login checks credentials and returns a signed token with the user's name.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		// same bcrypt cost as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Name)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Name: u.Name}, nil
}

// ParseToken verifies an access token and returns its identity.
func (s *AuthService) ParseToken(accessToken string) (Identity, error) {
	return s.tokens.Verify(accessToken)
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("ecostudy-no-such-user"), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
