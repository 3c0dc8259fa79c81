package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if hash == "pw1" {
		t.Fatal("hash equals plaintext")
	}

	if !h.Verify("pw1", hash) {
		t.Fatal("correct password rejected")
	}
	if h.Verify("pw2", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(4)

	h1, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected distinct salted hashes for the same input")
	}
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	// Out-of-range costs must still yield a usable hasher.
	h := NewPasswordHasher(99)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify("pw", hash) {
		t.Fatal("verify failed after fallback cost")
	}
}
