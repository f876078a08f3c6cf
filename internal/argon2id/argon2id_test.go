package argon2id

import (
	"strings"
	"testing"
)

func TestEncodeHashRoundTrip(t *testing.T) {
	encoded, err := EncodeHash("MiAbuelaCocina!1", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("encoded hash %q does not start with $argon2id$", encoded)
	}

	ok, err := VerifyPassword("MiAbuelaCocina!1", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("VerifyPassword() = false for correct password")
	}

	ok, err = VerifyPassword("not-the-password", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if ok {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestDecodeHash(t *testing.T) {
	encoded, err := EncodeHash("secret", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}

	p, salt, hash, err := DecodeHash(encoded)
	if err != nil {
		t.Fatalf("DecodeHash() error = %v", err)
	}
	if p.Memory != DefaultMemory || p.Iterations != DefaultIterations || p.Parallelism != DefaultParallelism {
		t.Errorf("decoded params = %+v, want defaults", p)
	}
	if len(salt) != DefaultSaltLength {
		t.Errorf("salt length = %d, want %d", len(salt), DefaultSaltLength)
	}
	if len(hash) != DefaultKeyLength {
		t.Errorf("hash length = %d, want %d", len(hash), DefaultKeyLength)
	}
}

func TestDecodeHash_Malformed(t *testing.T) {
	if _, _, _, err := DecodeHash("not-an-argon-hash"); err == nil {
		t.Error("expected error for malformed hash, got nil")
	}
}
