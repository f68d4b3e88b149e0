package domain

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.org",
		"user+tag@example.io",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q to be valid: %v", email, err)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"user@",
		"user@domain",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Sup3rSecret"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "lowercase123"},
		{"no lowercase", "UPPERCASE123"},
		{"no number", "NoDigitsHere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, ErrPasswordTooWeak) {
				t.Errorf("expected ErrPasswordTooWeak, got %v", err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit capped at 1000, got %d", limit)
	}

	limit, offset = ValidatePagination(25, 10)
	if limit != 25 || offset != 10 {
		t.Errorf("expected (25, 10), got (%d, %d)", limit, offset)
	}
}
