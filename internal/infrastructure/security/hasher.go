package security

import (
	"fmt"
	"strings"

	"github.com/medisched/user-service/internal/core/ports"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// NewHasher builds the hasher named by algorithm.
func NewHasher(algorithm string, bcryptCost int) (ports.PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}
}
