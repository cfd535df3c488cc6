package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stagedoor/internal/workflow"
)

// ErrInvalidToken signals a token that failed parsing, signature
// verification, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims carried in issued tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the user.
func (s *TokenService) Issue(user workflow.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token and returns the principal it names.
func (s *TokenService) Verify(tokenString string) (workflow.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return workflow.Principal{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return workflow.Principal{}, ErrInvalidToken
	}
	role, err := workflow.ParseRole(claims.Role)
	if err != nil {
		return workflow.Principal{}, ErrInvalidToken
	}
	return workflow.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
