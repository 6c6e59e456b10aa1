// Package token issues and verifies the signed session tokens handed out on
// registration and authentication.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medisched/user-service/internal/core/domain"
)

const minSecretLen = 32

// Config is the immutable signing configuration of a Codec.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// Codec signs claim sets with HS256 and verifies them back.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec validates cfg and returns a Codec. The secret is copied so later
// changes to cfg.Secret do not affect signing.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("token: secret must be at least %d bytes", minSecretLen)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Codec{secret: secret, ttl: cfg.TTL, now: time.Now}, nil
}

// TTL is the default lifetime used by IssueDefault.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// IssueDefault issues a token with the configured lifetime.
func (c *Codec) IssueDefault(subject string, extra map[string]any) (string, error) {
	return c.Issue(subject, extra, c.ttl)
}

// Issue signs subject and extra claims into a compact token valid for ttl.
// sub, iat and exp always override extra keys of the same name.
func (c *Codec) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported as
// domain.ErrTokenInvalid.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)

	mc := jwt.MapClaims{}
	tkn, err := parser.ParseWithClaims(tokenString, mc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrTokenInvalid
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenInvalid
	}
	iat, err := mc.GetIssuedAt()
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	claims := &Claims{
		Subject:   sub,
		ExpiresAt: exp.Time,
		Extra:     make(map[string]any, len(mc)),
	}
	if iat != nil {
		claims.IssuedAt = iat.Time
	}
	for k, v := range mc {
		switch k {
		case "sub", "iat", "exp":
		default:
			claims.Extra[k] = v
		}
	}
	return claims, nil
}

// ExtractSubject returns the verified subject of the token.
func (c *Codec) ExtractSubject(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractClaim returns a single extra claim. A missing key is reported as
// domain.ErrTokenInvalid as well.
func (c *Codec) ExtractClaim(tokenString, key string) (any, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	v, ok := claims.Extra[key]
	if !ok {
		return nil, fmt.Errorf("claim %q: %w", key, domain.ErrTokenInvalid)
	}
	return v, nil
}

// IsValid reports whether the token verifies, belongs to expectedSubject and
// has not expired.
func (c *Codec) IsValid(tokenString, expectedSubject string) bool {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && c.now().Before(claims.ExpiresAt)
}
