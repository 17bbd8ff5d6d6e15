package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     users.Role
	Profile  users.Profile
}

// Service wraps the registration and login flows.
type Service struct {
	repo   users.Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo users.Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register persists a new user and mints a session token. The password is
// hashed here, once, before the record ever reaches the store. A duplicate
// email surfaces as httpx.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.User, string, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &users.User{
		ID:           uuid.New(),
		Email:        users.NormalizeEmail(in.Email),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		Profile:      in.Profile,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login validates credentials and mints a session token. An unknown email
// and a wrong password both return httpx.ErrInvalidCredentials so the
// response never reveals which check failed. A store failure is not a
// credential problem and propagates as-is.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, "", httpx.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", httpx.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
