// AngelaMos | 2026
// validators_test.go

package auth

import (
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple", "user@example.com", true},
		{"plus tag", "user+tag@example.com", true},
		{"dotted local", "first.last@example.co.uk", true},
		{"empty", "", false},
		{"no at", "userexample.com", false},
		{"two ats", "a@b@example.com", false},
		{"missing domain", "user@", false},
		{"missing local", "@example.com", false},
		{"no tld", "user@localhost", false},
		{"leading dot in local", ".user@example.com", false},
		{"double dot in local", "us..er@example.com", false},
		{"local too long", strings.Repeat("a", 65) + "@example.com", false},
		{"local at limit", strings.Repeat("a", 64) + "@example.com", true},
		{"label too long", "user@" + strings.Repeat("a", 64) + ".com", false},
		{
			"domain too long",
			"user@" + strings.Repeat(strings.Repeat("a", 60)+".", 5) + "com",
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidEmail(tc.email); got != tc.valid {
				t.Fatalf("ValidEmail(%q) = %v, want %v", tc.email, got, tc.valid)
			}
		})
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all classes", "Abcdef12345!", true},
		{"max length", "Abcdef12345!Abcdef123!", true},
		{"too short", "Abcd123!", false},
		{"too long", "Abcdef12345!Abcdef12345!", false},
		{"no upper", "abcdef12345!", false},
		{"no lower", "ABCDEF12345!", false},
		{"no digit", "Abcdefghijk!", false},
		{"no symbol", "Abcdef123456", false},
		{"disallowed symbol", "Abcdef12345#", false},
		{"space rejected", "Abcdef 1234!", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidPassword(tc.password); got != tc.valid {
				t.Fatalf("ValidPassword(%q) = %v, want %v", tc.password, got, tc.valid)
			}
		})
	}
}
