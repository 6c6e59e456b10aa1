package ports

import "context"

// PasswordHasher hashes and verifies plaintext credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Matches returns (false, nil) on mismatch and an error only for a malformed hash.
	Matches(password, hash string) (bool, error)
}

// Authenticator checks an email/password pair against the directory.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}
