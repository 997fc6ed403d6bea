package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"github.com/contabilidadepro/contabilidade-api/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	users  UserStore
	tokens *Tokens
}

func NewService(users UserStore, tokens *Tokens) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Username, user.Roles)
}

// HashPassword gera o hash bcrypt usado no cadastro de usuários.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
