package ports

import (
	"context"

	"github.com/medisched/user-service/internal/core/domain"
)

// ProviderSummary is the name-only view of a user offering a service.
type ProviderSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// UserRepository is the user directory.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no record matches.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Save inserts the user when ID is zero (assigning one) and replaces it otherwise.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByService lists users carrying the tag. No match is an empty slice, not an error.
	FindByService(ctx context.Context, service domain.MedicalService) ([]ProviderSummary, error)
}
