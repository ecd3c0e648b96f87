// Package auth provides password hashing, signup validation and JWT
// bearer-token issuance.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12
	tokenTTL   = 7 * 24 * time.Hour
)

// Common errors.
var (
	// ErrInvalidCredentials is returned when an email/password pair does
	// not match a stored account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrValidation is returned for malformed signup input.
	ErrValidation = errors.New("validation failed")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Claims are the JWT claims carried in a bearer token.
type Claims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and verifies tokens and hashes passwords.
type Service struct {
	secret []byte
}

// New creates an auth service signing tokens with the given secret.
func New(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// ValidateSignup checks signup input against the account rules: username of
// 3-20 letters/digits/underscores, a plausible email, password of at least
// six characters. Failures wrap ErrValidation with the field detail.
func ValidateSignup(username, email, password string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-20 letters, numbers or underscores", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: please provide a valid email", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	return nil
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a bearer token for the user, valid for seven days.
func (s *Service) IssueToken(userID int, username, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
