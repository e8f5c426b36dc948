package utils

import (
	"strings"
	"testing"
)

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID()
	if len(id) != 32 {
		t.Errorf("expected 32 characters, got %d (%s)", len(id), id)
	}
	if strings.Contains(id, "-") {
		t.Errorf("expected no dashes, got %s", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := GenerateTransactionID()
		if seen[token] {
			t.Fatalf("duplicate token %s", token)
		}
		seen[token] = true
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "1234" {
		t.Error("expected hash to differ from plaintext")
	}
	if !CheckPassword("1234", hash) {
		t.Error("expected the right password to verify")
	}
	if CheckPassword("9999", hash) {
		t.Error("expected the wrong password to fail")
	}
}

func TestValidateAccountNumber(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"1000000000", true},
		{"0000000000", true},
		{"100000000", false},
		{"10000000000", false},
		{"10000o0000", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateAccountNumber(tt.number); got != tt.want {
			t.Errorf("ValidateAccountNumber(%q) = %v, want %v", tt.number, got, tt.want)
		}
	}
}
