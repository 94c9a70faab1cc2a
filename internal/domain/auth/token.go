package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens are minted by the venue's identity service; this package only
// verifies them and extracts the employee context.

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type EmployeeContext struct {
	EmployeeID string
	Role       string
}

func ParseToken(secret, tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.EmployeeID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// SignToken exists for tests and local tooling; production tokens come
// from the identity service.
func SignToken(secret, employeeID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
