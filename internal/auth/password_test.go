package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := ComparePassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("compare error: %v", err)
	}
	if err := ComparePassword(hash, "wrong password"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	long := strings.Repeat("p", 73)
	if _, err := HashPassword(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
	if err := ComparePassword("$2a$10$placeholderhash", long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("compare err = %v, want ErrPasswordTooLong", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
