package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sweetshop/internal/domain"
	"sweetshop/pkg/logger"
)

// TTL is the fixed credential lifetime. Expiry is wall-clock based and set
// once at mint time; there is no refresh or sliding expiration.
const TTL = 7 * 24 * time.Hour

// Claims is the signed payload of a session token.
type Claims struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec mints and verifies session tokens. It is the only component holding
// the signing secret, and a Credential is only ever produced by its
// Mint/Verify pair.
type Codec struct {
	secret []byte
	log    *logger.Logger

	// now is overridable in tests to exercise the expiry boundary.
	now func() time.Time
}

// NewCodec creates a codec for the given signing secret. An empty secret is
// an error; callers are expected to treat it as fatal at startup.
func NewCodec(secret string, log *logger.Logger) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}
	return &Codec{
		secret: []byte(secret),
		log:    log,
		now:    time.Now,
	}, nil
}

// Mint signs a new token for the given subject and role, valid for exactly
// seven days from now.
func (c *Codec) Mint(subjectID string, role domain.Role) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject id must not be empty")
	}
	if role == "" {
		return "", fmt.Errorf("role must not be empty")
	}

	now := c.now()
	claims := &Claims{
		ID:   subjectID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded credential.
// Any malformed, tampered or expired token yields nil; the reason is logged
// but never surfaced to the caller, so "no credential" and "bad credential"
// are indistinguishable downstream.
func (c *Codec) Verify(tokenString string) *domain.Credential {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	if err != nil {
		c.log.WithError(err).Warn("Session token rejected")
		return nil
	}

	if !parsed.Valid || claims.ID == "" || !claims.Role.Valid() {
		c.log.Warn("Session token rejected: missing or invalid claims")
		return nil
	}

	return &domain.Credential{
		SubjectID: claims.ID,
		Role:      claims.Role,
	}
}
