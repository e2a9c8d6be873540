package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/internal/platform/auth"
)

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, in Credentials) (*User, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	if _, err := mail.ParseAddress(username); err != nil {
		return nil, apperr.Validation("username must be a valid email address")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ErrBadCredentials is returned by Login for an unknown username or a wrong
// password. The two cases are indistinguishable on purpose.
var ErrBadCredentials = errors.New("incorrect email or password")

func (s *Service) Login(ctx context.Context, in Credentials) (*Token, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
