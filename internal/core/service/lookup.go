package service

import (
	"context"
	"fmt"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

// GetUserInfo returns every profile field of the token's owner.
func (s *AuthService) GetUserInfo(ctx context.Context, token string) (*ports.Profile, error) {
	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return fullProfile(user), nil
}

// GetUserRole returns the role currently stored for the token's owner, which
// may differ from the role claim baked into the token.
func (s *AuthService) GetUserRole(ctx context.Context, token string) (domain.Role, error) {
	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *AuthService) GetUserID(ctx context.Context, token string) (int64, error) {
	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// GetUserInfoByID returns the profile of the given user with its service list
// shaped by role. See ProjectByRole.
func (s *AuthService) GetUserInfoByID(ctx context.Context, id int64) (*ports.Profile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return ProjectByRole(user)
}

// GetDoctorsForService lists providers of a service. An empty result is
// reported as domain.ErrNoProvidersForService.
func (s *AuthService) GetDoctorsForService(ctx context.Context, service domain.MedicalService) ([]ports.ProviderSummary, error) {
	providers, err := s.repo.FindByService(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("find providers for %s: %w", service, err)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("%s: %w", service, domain.ErrNoProvidersForService)
	}
	return providers, nil
}

// Validate reports whether the token's owner currently holds role.
func (s *AuthService) Validate(ctx context.Context, token string, role domain.Role) (bool, error) {
	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return false, err
	}
	return user.Role == role, nil
}

func (s *AuthService) userFromToken(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.codec.ExtractSubject(token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}
