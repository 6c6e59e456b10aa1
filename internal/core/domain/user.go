package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

var (
	ErrEmailAlreadyInUse     = errors.New("user with this email already exists")
	ErrBadCredentials        = errors.New("bad credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrTokenInvalid          = errors.New("invalid token")
	ErrNoProvidersForService = errors.New("no doctors for this service")
	ErrUnknownRole           = errors.New("unknown role")
)

// Roles returns every role the service knows about.
func Roles() []Role {
	return []Role{RolePatient, RoleDoctor, RoleAdmin}
}

// IsValid reports whether r is a member of the closed role set.
func (r Role) IsValid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// User models an account in the directory.
type User struct {
	ID           int64            `json:"id"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Phone        string           `json:"phone"`
	Role         Role             `json:"role"`
	Services     []MedicalService `json:"services"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
