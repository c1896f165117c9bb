package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

func TestNewValidator_PasswordRuleIsRegistered(t *testing.T) {
	v := NewValidator()

	weak := registerRequest{Name: "Ana", Email: "ana@example.com", Password: "abcdef"}
	err := v.Validate(weak)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "password must contain an uppercase letter and a special character") {
		t.Fatalf("expected the password rule message, got %v", err)
	}

	strong := registerRequest{Name: "Ana", Email: "ana@example.com", Password: "Abcde!"}
	if err := v.Validate(strong); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestValidator_ReportsStringLengthInCharacters(t *testing.T) {
	err := NewValidator().Validate(registerRequest{Name: "Ana", Email: "ana@example.com", Password: "A!b"})
	if err == nil || !strings.Contains(err.Error(), "password needs at least 6 characters") {
		t.Fatalf("expected length message, got %v", err)
	}
}
