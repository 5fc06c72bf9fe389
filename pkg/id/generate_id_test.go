package id

import (
	"regexp"
	"testing"
)

var reToken = regexp.MustCompile(`^[A-Z0-9]{20}$`)

func TestNewTransactionID_Format(t *testing.T) {
	got := NewTransactionID()

	if len(got) != TransactionIDLength {
		t.Fatalf("length = %d, want %d (got=%q)", len(got), TransactionIDLength, got)
	}
	if !reToken.MatchString(got) {
		t.Fatalf("not 20-char uppercase alphanumeric: %q", got)
	}
}

func TestNewTransactionID_Uniqueness(t *testing.T) {
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewTransactionID()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate token after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewTransactionID_NoLowercase(t *testing.T) {
	id := NewTransactionID()
	for _, r := range id {
		if r >= 'a' && r <= 'z' {
			t.Fatalf("found lowercase letter in token: %q", id)
		}
	}
}
