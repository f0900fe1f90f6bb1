package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// sealedPrefix marks values written while a key was configured.
var sealedPrefix = []byte("gcm1:")

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer encrypts signature blobs at rest with AES-256-GCM. The zero key
// disables encryption and values pass through unchanged.
type Sealer struct {
	aead cipher.AEAD
}

func New(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Configured() bool {
	return s != nil && s.aead != nil
}

// Seal encrypts value, binding it to scope (for example a contract id) so a
// blob cannot be replayed onto another row.
func (s *Sealer) Seal(value, scope string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !s.Configured() {
		return []byte(value), nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(sealedPrefix)+len(nonce)+len(value)+s.aead.Overhead())
	out = append(out, sealedPrefix...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, []byte(value), []byte(scope)), nil
}

// Open reverses Seal. Values stored before a key was configured are returned
// as-is.
func (s *Sealer) Open(sealed []byte, scope string) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if !hasPrefix(sealed) {
		return string(sealed), nil
	}
	if !s.Configured() {
		return "", errors.New("encrypted value found but DATA_ENCRYPTION_KEY is not set")
	}
	body := sealed[len(sealedPrefix):]
	if len(body) < s.aead.NonceSize() {
		return "", ErrCiphertextTooShort
	}
	nonce, data := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, data, []byte(scope))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func hasPrefix(value []byte) bool {
	if len(value) < len(sealedPrefix) {
		return false
	}
	return string(value[:len(sealedPrefix)]) == string(sealedPrefix)
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
