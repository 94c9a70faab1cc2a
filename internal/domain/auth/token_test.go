package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken("unit-secret", "e1", RoleManager, time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := ParseToken("unit-secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.EmployeeID != "e1" {
		t.Fatalf("expected employee e1, got %s", claims.EmployeeID)
	}
	if claims.Role != RoleManager {
		t.Fatalf("expected manager role, got %s", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("unit-secret", "e1", RoleStaff, time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseToken("other-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken("unit-secret", "e1", RoleStaff, -time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseToken("unit-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseTokenMissingEmployee(t *testing.T) {
	token, err := SignToken("unit-secret", "", RoleStaff, time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseToken("unit-secret", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing employee id, got %v", err)
	}
}
