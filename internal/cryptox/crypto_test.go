package cryptox

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !ComparePassword(hash, "Secret123") {
		t.Errorf("expected password to match its hash")
	}
	if ComparePassword(hash, "secret123") {
		t.Errorf("expected different password to be rejected")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if string(h1) == string(h2) {
		t.Errorf("expected distinct hashes for the same password")
	}
}

func TestComparePassword_GarbageHash(t *testing.T) {
	if ComparePassword([]byte("not-a-bcrypt-hash"), "Secret123") {
		t.Errorf("garbage hash must not match")
	}
}

func TestCompareDummy(t *testing.T) {
	if CompareDummy("portfolio-dummy-password") {
		t.Errorf("dummy comparison must always fail")
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Secret123", nil},
		{"too short", "Sec1", errTooShort},
		{"no uppercase", "secret123", errNoUppercase},
		{"no digit", "SecretPass", errNoDigit},
		{"empty", "", errTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}
