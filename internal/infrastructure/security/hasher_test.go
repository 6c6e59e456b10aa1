package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/medisched/user-service/internal/core/ports"
)

func hashers() map[string]ports.PasswordHasher {
	return map[string]ports.PasswordHasher{
		AlgorithmBcrypt:   NewBcryptHasher(bcrypt.MinCost),
		AlgorithmArgon2id: NewArgon2idHasher(),
	}
}

func TestHashers_HashAndMatch(t *testing.T) {
	for name, h := range hashers() {
		hash, err := h.Hash("doktor")
		if err != nil {
			t.Fatalf("%s: Hash error: %v", name, err)
		}
		if hash == "doktor" {
			t.Fatalf("%s: hash equals plaintext", name)
		}

		ok, err := h.Matches("doktor", hash)
		if err != nil || !ok {
			t.Fatalf("%s: expected match, got %v %v", name, ok, err)
		}
		ok, err = h.Matches("pacient", hash)
		if err != nil || ok {
			t.Fatalf("%s: expected mismatch, got %v %v", name, ok, err)
		}
	}
}

func TestHashers_SaltedPerCall(t *testing.T) {
	for name, h := range hashers() {
		a, _ := h.Hash("same")
		b, _ := h.Hash("same")
		if a == b {
			t.Fatalf("%s: expected different hashes for the same password", name)
		}
	}
}

func TestHashers_EmptyPassword(t *testing.T) {
	for name, h := range hashers() {
		if _, err := h.Hash(""); !errors.Is(err, ErrEmptyPassword) {
			t.Fatalf("%s: expected ErrEmptyPassword, got %v", name, err)
		}
	}
}

func TestHashers_MalformedHash(t *testing.T) {
	for name, h := range hashers() {
		if _, err := h.Matches("x", "not-a-hash"); err == nil {
			t.Fatalf("%s: expected error for malformed hash", name)
		}
	}
}

func TestArgon2id_RejectsZeroCostParameters(t *testing.T) {
	h := NewArgon2idHasher()
	valid, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	parts := strings.Split(valid, "$")

	for _, params := range []string{"m=65536,t=0,p=4", "m=0,t=1,p=4", "m=65536,t=1,p=0"} {
		parts[3] = params
		if _, err := h.Matches("secret", strings.Join(parts, "$")); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("%s: expected ErrInvalidHash, got %v", params, err)
		}
	}
}

func TestArgon2id_Format(t *testing.T) {
	hash, err := NewArgon2idHasher().Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Fatalf("unexpected encoding: %s", hash)
	}
}

func TestNewHasher(t *testing.T) {
	if h, err := NewHasher("bcrypt", 0); err != nil || h == nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if _, ok := mustHasher(t, "ARGON2ID").(*Argon2idHasher); !ok {
		t.Fatalf("expected argon2id hasher")
	}
	if _, err := NewHasher("md5", 0); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func mustHasher(t *testing.T, name string) ports.PasswordHasher {
	t.Helper()
	h, err := NewHasher(name, 0)
	if err != nil {
		t.Fatalf("NewHasher(%q): %v", name, err)
	}
	return h
}
