package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

// CredentialAuthenticator matches an email/password pair against the stored
// password hash.
type CredentialAuthenticator struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
}

func NewCredentialAuthenticator(repo ports.UserRepository, hasher ports.PasswordHasher) *CredentialAuthenticator {
	return &CredentialAuthenticator{repo: repo, hasher: hasher}
}

// Authenticate returns domain.ErrBadCredentials for an unknown email, a wrong
// password or an unreadable stored hash.
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.ErrBadCredentials
	}

	user, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrBadCredentials
		}
		return fmt.Errorf("load credentials: %w", err)
	}

	ok, err := a.hasher.Matches(password, user.PasswordHash)
	if err != nil || !ok {
		return domain.ErrBadCredentials
	}
	return nil
}
