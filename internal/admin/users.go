package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/contabilidadepro/contabilidade-api/internal/auth"
	"github.com/contabilidadepro/contabilidade-api/internal/models"
)

type UserCreator interface {
	Create(ctx context.Context, u *models.User) error
}

// CreateUser grava um usuário com a senha em bcrypt. roles vem como
// lista separada por vírgula ("admin,contador").
func CreateUser(ctx context.Context, repo UserCreator, username, password, roles string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must have at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        splitRoles(roles),
	}
	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func splitRoles(s string) []string {
	out := []string{}
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
