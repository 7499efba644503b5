package security

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	minSecretBytes  = 32
)

// DecodeSecret decodes a base64 signing secret and checks its length.
func DecodeSecret(encoded string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode token secret: %w", err)
	}
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", minSecretBytes, len(secret))
	}
	return secret, nil
}

// JWTCodec issues and verifies HS256 JWTs carrying sub, iat, exp and jti.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret []byte, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTCodec{secret: secret, ttl: ttl}
}

// TTL reports how long issued tokens stay valid.
func (c *JWTCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token for subject valid from now until now+TTL. The returned
// expiry is the one encoded in the token (second precision).
func (c *JWTCodec) Issue(subject string, now time.Time) (*domain.Token, error) {
	exp := jwt.NewNumericDate(now.Add(c.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: exp,
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   domain.TokenTypeBearer,
		ExpiresAt:   exp.Time,
	}, nil
}

// Verify checks signature and expiry as of now and returns the subject.
// A token is still valid at its exact expiry instant and expired after it.
func (c *JWTCodec) Verify(token string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	// jwt's own exp check rejects now == exp, so time claims are checked below
	_, err := jwt.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing expiry", domain.ErrTokenInvalid)
	}
	if now.After(claims.ExpiresAt.Time) {
		return "", domain.ErrTokenExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return "", fmt.Errorf("%w: not valid yet", domain.ErrTokenInvalid)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	return claims.Subject, nil
}
