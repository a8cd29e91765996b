package auth

import (
	"testing"
	"time"
)

func TestBuildAndParseJWT(t *testing.T) {
	secret := []byte("test-secret-min-32-chars!!")
	tok, err := BuildJWT(secret, "user-123", "Dra. García", time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	claims, err := ParseJWT(secret, tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "user-123" || claims.Nombre != "Dra. García" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject: %q", claims.Subject)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	tok, err := BuildJWT([]byte("secret-a-min-32-chars-long!!!!!!"), "user-123", "", time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT([]byte("secret-b-min-32-chars-long!!!!!!"), tok); err == nil {
		t.Fatal("token firmado con otro secreto debe rechazarse")
	}
}

func TestParseJWTExpired(t *testing.T) {
	secret := []byte("test-secret-min-32-chars!!")
	tok, err := BuildJWT(secret, "user-123", "", -time.Minute)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT(secret, tok); err == nil {
		t.Fatal("token vencido debe rechazarse")
	}
}
