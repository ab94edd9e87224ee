package utils

import (
	"encoding/hex"
	"testing"
	"time"
)

func TestNewRefreshTokenShape(t *testing.T) {
	tok, err := NewRefreshToken(14)
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}
	if len(tok.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(tok.Raw))
	}
	if _, err := hex.DecodeString(tok.Raw); err != nil {
		t.Fatalf("raw is not hex: %v", err)
	}
	if !tok.Exp.After(time.Now().UTC().Add(13 * 24 * time.Hour)) {
		t.Fatalf("expiry %v does not cover the requested ttl", tok.Exp)
	}
}

// Storage keeps only the hash, in a CHAR(64) column. The hash must be
// deterministic so a presented raw token finds its stored row, and must
// never equal the raw token itself.
func TestHashRefreshRaw(t *testing.T) {
	a, err := NewRefreshToken(1)
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}
	b, err := NewRefreshToken(1)
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}

	hash := HashRefreshRaw(a.Raw)
	if len(hash) != 64 {
		t.Fatalf("hash length = %d, want 64", len(hash))
	}
	if hash != HashRefreshRaw(a.Raw) {
		t.Fatal("hashing the same raw token twice gave different hashes")
	}
	if hash == HashRefreshRaw(b.Raw) {
		t.Fatal("two distinct raw tokens hashed to the same value")
	}
	if hash == a.Raw {
		t.Fatal("hash equals the raw token")
	}
}
