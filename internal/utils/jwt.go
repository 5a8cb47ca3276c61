package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role tokens are issued for.
const RoleAdmin = "admin"

var ErrInvalidRole = errors.New("token role not allowed")

type adminClaims struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed admin JWT for the provided account ID.
func GenerateToken(secret string, adminID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &adminClaims{
		AdminID: adminID.String(),
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded admin ID.
func ParseToken(secret, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != RoleAdmin {
		return uuid.Nil, ErrInvalidRole
	}

	return uuid.Parse(claims.AdminID)
}
