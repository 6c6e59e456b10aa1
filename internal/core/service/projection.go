package service

import (
	"fmt"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

// ProjectByRole builds the public profile of user. A patient's services are
// never exposed; every other role always carries its (possibly empty) list.
// New roles must be added here explicitly.
func ProjectByRole(user *domain.User) (*ports.Profile, error) {
	p := baseProfile(user)
	switch user.Role {
	case domain.RolePatient:
		p.Services = nil
	case domain.RoleDoctor, domain.RoleAdmin:
		p.Services = servicesOf(user)
	default:
		return nil, fmt.Errorf("project user %d: %w: %q", user.ID, domain.ErrUnknownRole, user.Role)
	}
	return p, nil
}

func fullProfile(user *domain.User) *ports.Profile {
	p := baseProfile(user)
	p.Services = servicesOf(user)
	return p
}

func baseProfile(user *domain.User) *ports.Profile {
	return &ports.Profile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
	}
}

func servicesOf(user *domain.User) *[]domain.MedicalService {
	services := make([]domain.MedicalService, len(user.Services))
	copy(services, user.Services)
	return &services
}
