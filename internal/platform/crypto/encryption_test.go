package crypto

import (
	"strings"
	"testing"
)

const testKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

func TestSealOpenRoundTrip(t *testing.T) {
	sealer, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !sealer.Configured() {
		t.Fatal("expected sealer to be configured")
	}
	sealed, err := sealer.Seal("data:image/png;base64,AAAA", "contract-1")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if strings.Contains(string(sealed), "image/png") {
		t.Fatal("sealed value leaks plaintext")
	}
	plain, err := sealer.Open(sealed, "contract-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "data:image/png;base64,AAAA" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
	if _, err := sealer.Open(sealed, "contract-2"); err == nil {
		t.Fatal("expected error when scope differs")
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	sealer, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := sealer.Seal("sig", "c")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if string(sealed) != "sig" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
	plain, err := sealer.Open(sealed, "c")
	if err != nil || plain != "sig" {
		t.Fatalf("unexpected open result %q %v", plain, err)
	}
}

func TestOpenReadsLegacyPlaintext(t *testing.T) {
	sealer, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	plain, err := sealer.Open([]byte("legacy"), "c")
	if err != nil || plain != "legacy" {
		t.Fatalf("unexpected open result %q %v", plain, err)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected error for short key")
	}
}
