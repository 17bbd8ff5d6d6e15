package auth_test

import (
	"testing"

	"github.com/shubhamshk/fraudBusters-App/internal/auth"
)

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct digests for the same plaintext")
	}
	if !auth.CheckPassword("secret1", first) || !auth.CheckPassword("secret1", second) {
		t.Fatalf("expected both digests to verify")
	}
}

func TestHashPasswordIsNotPlaintext(t *testing.T) {
	digest, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "secret1" {
		t.Fatalf("digest must not equal the plaintext")
	}
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	digest, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if auth.CheckPassword("wrongpass", digest) {
		t.Fatalf("expected verification failure for wrong password")
	}
}
