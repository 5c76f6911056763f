package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
)

const (
	defaultAccessTokenDuration  = 1 * time.Hour
	defaultRefreshTokenDuration = 7 * 24 * time.Hour
)

// Claims are the identity attributes embedded in both credential pair
// members. Scope checks are pure functions over these fields.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

type TokenManagerInterface interface {
	Generate(username, email, role string, duration time.Duration) (string, error)
	Validate(tokenString string) (*Claims, error)
}

type TokenManager struct {
	secret string
}

func NewTokenManager(secret string) TokenManagerInterface {
	return &TokenManager{secret: secret}
}

func (m *TokenManager) Generate(username, email, role string, duration time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		Email:    email,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			Subject:   username,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// Validate decodes and verifies a token. Expiry is reported as
// ErrExpiredJWTToken, every other defect as ErrInvalidJWTToken; claims
// missing any identity field count as invalid, not expired.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.secret), nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			// Expiry counts only when it is the sole defect; a token that
			// is tampered and expired is invalid, not expired.
			if validationErr.Errors == jwt.ValidationErrorExpired {
				return nil, ErrExpiredJWTToken
			}
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	if claims.Username == "" || claims.Email == "" || claims.Role == "" {
		return nil, ErrInvalidJWTToken
	}

	return claims, nil
}
