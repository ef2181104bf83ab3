// Package identity is the boundary to the external identity provider.
// The coordinator trusts the {userId, displayName} pair extracted here
// for the whole lifetime of a connection.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/voiceroom/server/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirror what the identity service signs: the user id and display
// name, HS256 over a shared secret.
type Claims struct {
	jwt.StandardClaims
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token, completing before any room
// command is accepted for the connection.
func (v *Verifier) Verify(token string) (*domain.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	user, err := domain.NewUser(domain.UserID(claims.ID), claims.Username)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Sign mints a token for the given identity. The identity service owns
// issuing in production; this exists for local development and tests.
func (v *Verifier) Sign(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		ID:       string(user.ID),
		Username: user.Username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
