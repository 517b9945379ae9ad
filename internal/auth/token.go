package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload carried by a token.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

// InvalidTokenError is returned by Verify for any token that cannot be trusted.
type InvalidTokenError struct {
	Reason error
}

func (e *InvalidTokenError) Error() string { return "invalid token: " + e.Reason.Error() }
func (e *InvalidTokenError) Unwrap() error { return e.Reason }

var (
	errEmptySecret = errors.New("signing secret is empty")
	errNonPositive = errors.New("token ttl must be positive")
	errNoSubject   = errors.New("token carries no user id")
)

// TokenManager issues and verifies HS256 tokens with a process-wide secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if ttl <= 0 {
		return nil, errNonPositive
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs claims for the given user. Expiry is now + ttl.
func (m *TokenManager) Issue(username, userID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &InvalidTokenError{Reason: err}
	}
	if !token.Valid {
		return nil, &InvalidTokenError{Reason: jwt.ErrTokenSignatureInvalid}
	}
	if claims.UserID == "" {
		return nil, &InvalidTokenError{Reason: errNoSubject}
	}
	return claims, nil
}
