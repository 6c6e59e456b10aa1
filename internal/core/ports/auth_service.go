package ports

import (
	"context"

	"github.com/medisched/user-service/internal/core/domain"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      domain.Role
	Services  []domain.MedicalService
}

// Credentials is an email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult is returned by Register and Authenticate.
type AuthResult struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// Profile is the identity view of a user. A nil Services means the field is
// not exposed for this user; a non-nil empty slice means the user offers none.
type Profile struct {
	ID        int64                    `json:"id"`
	FirstName string                   `json:"firstName"`
	LastName  string                   `json:"lastName"`
	Email     string                   `json:"email"`
	Phone     string                   `json:"phone"`
	Role      domain.Role              `json:"role"`
	Services  *[]domain.MedicalService `json:"services,omitempty"`
}

// AuthService defines account and identity use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error)

	GetUserInfo(ctx context.Context, token string) (*Profile, error)
	GetUserRole(ctx context.Context, token string) (domain.Role, error)
	GetUserID(ctx context.Context, token string) (int64, error)
	GetUserInfoByID(ctx context.Context, id int64) (*Profile, error)
	GetDoctorsForService(ctx context.Context, service domain.MedicalService) ([]ProviderSummary, error)
	Validate(ctx context.Context, token string, role domain.Role) (bool, error)
}
