package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

const roleClaim = "role"

// TokenCodec is the part of token.Codec the service depends on.
type TokenCodec interface {
	IssueDefault(subject string, extra map[string]any) (string, error)
	ExtractSubject(token string) (string, error)
}

// AuthService implements registration, authentication and identity lookups.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	authn  ports.Authenticator
	codec  TokenCodec
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	authn ports.Authenticator,
	codec TokenCodec,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		authn:  authn,
		codec:  codec,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and returns a token for it. The email check and
// the insert are two separate directory calls; concurrent registrations of the
// same email can both succeed.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.logger.Info().Str("email", in.Email).Msg("registration rejected: email in use")
		return nil, domain.ErrEmailAlreadyInUse
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	saved, err := s.repo.Save(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role,
		Services:     in.Services,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to save user")
		return nil, fmt.Errorf("register: save user: %w", err)
	}

	token, err := s.issue(saved)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Int64("user_id", saved.ID).Str("role", string(saved.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, Role: saved.Role}, nil
}

// Authenticate checks the credentials and issues a token carrying the
// user's current role.
func (s *AuthService) Authenticate(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	if err := s.authn.Authenticate(ctx, creds.Email, creds.Password); err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			s.logger.Info().Str("email", creds.Email).Msg("authentication failed")
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		// The authenticator just matched this email, so a miss here is a bug
		// or a concurrent delete, never a user-facing not-found.
		s.logger.Error().Err(err).Str("email", creds.Email).Msg("authenticated user could not be reloaded")
		// %v: must not unwrap to ErrUserNotFound.
		return nil, fmt.Errorf("authenticate: reload user %q: %v", creds.Email, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user authenticated")
	return &ports.AuthResult{Token: token, Role: user.Role}, nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	token, err := s.codec.IssueDefault(user.Email, map[string]any{roleClaim: string(user.Role)})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
