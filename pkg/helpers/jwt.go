package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is empty")
)

// JWTManager issues and verifies HS256 bearer tokens.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTManager{Secret: []byte(secret), TTL: ttl}, nil
}

// Claims carries the user id in the standard subject claim plus the email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID is the token subject.
func (c *Claims) UserID() string { return c.Subject }

func (m *JWTManager) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
