package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-32-bytes-long-123456")

func TestGenerateAndValidateJWT(t *testing.T) {
	params := JWTParams{UserID: "42", Email: "abuela@example.com"}

	signed, err := GenerateJWT(params, testSecret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	token, err := ValidateJWT(signed, "1", testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("expected MapClaims, got %T", token.Claims)
	}
	if sub, _ := claims.GetSubject(); sub != "42" {
		t.Errorf("sub = %q, want %q", sub, "42")
	}
	if email, _ := claims["email"].(string); email != "abuela@example.com" {
		t.Errorf("email = %q, want %q", email, "abuela@example.com")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("GetExpirationTime() error = %v", err)
	}
	until := time.Until(exp.Time)
	if until > JWTDuration || until < JWTDuration-time.Minute {
		t.Errorf("expiry %v from now, want about %v", until, JWTDuration)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	signed, err := GenerateJWT(JWTParams{UserID: "1", Email: "a@b.com"}, testSecret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(signed, "1", []byte("another-secret-32-bytes-long-xx")); err == nil {
		t.Error("expected error for wrong secret, got nil")
	}
}

func TestValidateJWT_WrongVersion(t *testing.T) {
	signed, err := GenerateJWT(JWTParams{UserID: "1", Email: "a@b.com"}, testSecret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(signed, "2", testSecret); err == nil {
		t.Error("expected error for wrong kid version, got nil")
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":   "1",
		"email": "a@b.com",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = "1"
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	_, err = ValidateJWT(signed, "1", testSecret)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("error = %v, want jwt.ErrTokenExpired", err)
	}
}
