package utils

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"shortest accepted at registration", "secret"},
		{"non-ascii", "pässwörd-Ω"},
		{"bcrypt limit", strings.Repeat("k", 72)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword: %v", err)
			}
			if strings.Contains(hash, tt.password) {
				t.Error("hash leaks the password")
			}
			if !CheckPassword(tt.password, hash) {
				t.Error("password does not match its own hash")
			}
			again, _ := HashPassword(tt.password)
			if again == hash {
				t.Error("hashes should be salted")
			}
		})
	}
}

func TestHashPassword_RejectsOverlong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("k", 73))
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("lab-bench-42")
	if err != nil {
		t.Fatal(err)
	}
	other, err := HashPassword("library-7")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
	}{
		{"trailing space is significant", "lab-bench-42 ", hash},
		{"case is significant", "LAB-BENCH-42", hash},
		{"another user's hash", "lab-bench-42", other},
		{"plaintext stored by mistake", "lab-bench-42", "lab-bench-42"},
		{"no hash", "lab-bench-42", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword(tt.password, tt.hash) {
				t.Errorf("CheckPassword(%q) matched", tt.password)
			}
		})
	}
}
