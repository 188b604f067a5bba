package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		UserID:   7,
		Email:    "ann@example.com",
		RoleType: "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "workshophub.app",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "workshophub.app"})
	token := signToken(t, testSecret, validClaims())

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.RoleType != "USER" {
		t.Errorf("RoleType = %s, want USER", claims.RoleType)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret})
	token := signToken(t, "someone-elses-secret", validClaims())

	if _, err := svc.ValidateAndExtractClaims(token); err == nil {
		t.Fatal("expected error for token signed with wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret})
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, testSecret, claims)

	_, err := svc.ValidateAndExtractClaims(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "workshophub.app"})
	claims := validClaims()
	claims.Issuer = "other.app"
	token := signToken(t, testSecret, claims)

	_, err := svc.ValidateAndExtractClaims(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsEmptyIdentity(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret})
	claims := validClaims()
	claims.UserID = 0
	token := signToken(t, testSecret, claims)

	_, err := svc.ValidateAndExtractClaims(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("empty header: expected ErrInvalidFormat, got %v", err)
	}

	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("bearer header: got (%q, %v)", token, err)
	}

	token, err = ExtractBearerToken("abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("bare token: got (%q, %v)", token, err)
	}
}
