package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const TokenTTL = 72 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims is what the auth middleware needs from a verified token.
type Claims struct {
	UserID string
	Role   string
}

// GenerateToken signs an HS256 token carrying the user's id and role.
func GenerateToken(secret, userID, role string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(TokenTTL).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseToken verifies tokenString and extracts its claims.
func ParseToken(secret, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	userID, _ := mc["user_id"].(string)
	if userID == "" {
		return Claims{}, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	role, _ := mc["role"].(string)
	return Claims{UserID: userID, Role: role}, nil
}
