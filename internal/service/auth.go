package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sumire/jobboard/internal/domain"
)

const defaultTokenTTL = 15 * time.Minute

// Claims identifies the caller of a protected endpoint.
type Claims struct {
	UserID int64
	Role   domain.Role
}

// IsAdmin reports whether the caller may use moderation endpoints.
func (c Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// AuthService issues and validates access tokens. Login itself happens in the
// accounts service, which signs tokens with the same secret.
type AuthService struct {
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret), now: time.Now}
}

// IssueToken signs an access token for userID valid for ttl (15 minutes when
// ttl is not positive).
func (s *AuthService) IssueToken(userID int64, role domain.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT access token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "access" {
		return Claims{}, domain.ErrUnauthorized
	}

	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return Claims{}, domain.ErrUnauthorized
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = string(domain.RoleUser)
	}

	return Claims{UserID: int64(userIDFloat), Role: domain.Role(role)}, nil
}
