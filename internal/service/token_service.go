package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates self-contained signed tokens.
// There is no revocation list; expiry is the only invalidation
// mechanism, so logout is a client-side token discard.
type TokenService interface {
	Issue(username, role string) (string, error)
	Validate(token string) bool
	Subject(token string) (string, error)
}

type tokenClaims struct {
	Roles string `json:"roles"`
	jwt.RegisteredClaims
}

type tokenService struct {
	key        []byte
	expiration time.Duration
}

func NewTokenService(secret string, expiration time.Duration) TokenService {
	return &tokenService{
		key:        []byte(secret),
		expiration: expiration,
	}
}

func (s *tokenService) Issue(username, role string) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Roles: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate reports whether the signature verifies and the token has not
// expired. Any parse failure counts as invalid; there is no partial trust.
func (s *tokenService) Validate(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

// Subject returns the subject claim of a valid token.
func (s *tokenService) Subject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *tokenService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
