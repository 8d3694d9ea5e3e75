package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrPasswordRequired = errors.New("password is required")
)

// UserRepository defines the account storage the service needs.
type UserRepository interface {
	Create(username, passwordHash string) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	GetByTokenHash(tokenHash string) (*entities.User, error)
	UpdateToken(id uint, tokenHash string, expiresAt *time.Time) error
	Count() (int64, error)
}

// Service handles document-server accounts and API tokens.
type Service struct {
	users  UserRepository
	config config.Auth
	now    func() time.Time
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
		now:    time.Now,
	}
}

// CreateUser registers a new account.
func (s *Service) CreateUser(username, password string) (*entities.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	_, err := s.users.GetByUsername(username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// IssueToken verifies credentials and rotates the account's API token.
// The plaintext token is returned once and never stored.
func (s *Service) IssueToken(username, password string) (string, *entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return "", nil, err
	}

	token, err := NewAPIToken()
	if err != nil {
		return "", nil, err
	}

	var expiresAt *time.Time
	if s.config.TokenExpiry > 0 {
		t := s.now().Add(s.config.TokenExpiry)
		expiresAt = &t
	}

	if err := s.users.UpdateToken(user.ID, token.Hash, expiresAt); err != nil {
		return "", nil, fmt.Errorf("failed to store token: %w", err)
	}

	user.TokenHash = token.Hash
	user.TokenExpiresAt = expiresAt
	return token.Plaintext, user, nil
}

// ValidateToken checks a plaintext token and returns the associated account.
func (s *Service) ValidateToken(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByTokenHash(HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.TokenExpiresAt != nil && s.now().After(*user.TokenExpiresAt) {
		return nil, ErrTokenExpired
	}

	return user, nil
}

// HasUsers reports whether at least one account exists.
func (s *Service) HasUsers() (bool, error) {
	n, err := s.users.Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
