// Package auth holds the stateless credential primitives: bcrypt password
// hashing and HS256 session tokens.
package auth

import (
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: registered claims plus the username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken signs a token binding username. A zero validity issues a
// token without an expiry.
func GenerateToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: username,
	}
	if validity != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GetUsernameFromToken returns the username embedded in tokenString.
// Malformed, tampered, expired, wrongly signed or username-less tokens all
// fail with common.ErrInvalidToken.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}

// TokenManager binds the secret and lifetime so callers only deal with
// usernames.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

func NewTokenManager(secret string, validity time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), validity: validity}
}

func (m *TokenManager) Issue(username string) (string, error) {
	return GenerateToken(username, m.secret, m.validity)
}

func (m *TokenManager) Verify(token string) (string, error) {
	return GetUsernameFromToken(token, m.secret)
}
