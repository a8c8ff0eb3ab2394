package jwt

import (
	"testing"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(3521923052891284945, "alice", false)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generated token is empty")
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 3521923052891284945 {
		t.Errorf("Expected UserID 3521923052891284945, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username alice, got %s", claims.Username)
	}
	if claims.IsAdmin {
		t.Error("Expected IsAdmin false")
	}
}

func TestParseToken_AdminClaim(t *testing.T) {
	token, err := GenerateToken(1, "root_admin", true)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if !claims.IsAdmin {
		t.Error("Expected IsAdmin true")
	}
}

func TestParseToken_Invalid(t *testing.T) {
	for _, tokenString := range []string{
		"",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.garbage.signature",
	} {
		if _, err := ParseToken(tokenString); err == nil {
			t.Errorf("Expected error for token %q", tokenString)
		}
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "alice", false)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	old := jwtSecret
	defer func() { jwtSecret = old }()
	SetJWTSecret("a-different-secret")

	if _, err := ParseToken(token); err == nil {
		t.Error("Expected signature verification failure with wrong secret")
	}
}
