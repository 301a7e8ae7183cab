// Package token seals (recipient, campaign) id pairs into opaque bearer
// tokens embedded in outbound campaign links. Tokens are encrypted and
// authenticated, so the landing server can recover the pair without any
// server-side token registry, and a tampered token is always rejected.
package token

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Decode error taxonomy. Callers treat all three the same way (reject with a
// generic client error, log detail internally); the split exists so logs can
// distinguish garbage links from forged ones.
var (
	// ErrMalformed means the token is not valid base64 or is too short to
	// contain a nonce and authentication tag.
	ErrMalformed = errors.New("token: malformed")
	// ErrAuthenticationFailed means the ciphertext did not authenticate:
	// the token was mutated or produced with a different key.
	ErrAuthenticationFailed = errors.New("token: authentication failed")
	// ErrPayloadInvalid means decryption succeeded but the plaintext is not
	// a "<recipient>|<campaign>" integer pair.
	ErrPayloadInvalid = errors.New("token: payload invalid")
)

// KeySize is the required secret key length in bytes.
const KeySize = chacha20poly1305.KeySize

// Codec encrypts and authenticates bearer tokens with XChaCha20-Poly1305.
// The key is provisioned once per deployment; rotating it invalidates all
// outstanding tokens, which is acceptable for short-lived campaigns.
type Codec struct {
	aead cipher.AEAD
}

// New creates a Codec from a base64-encoded 32-byte key (the format written
// by cmd/keygen). A missing or invalid key is a startup error, not a
// per-call condition.
func New(keyB64 string) (*Codec, error) {
	if keyB64 == "" {
		return nil, fmt.Errorf("token: SECRET_KEY is empty")
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(keyB64))
	if err != nil {
		return nil, fmt.Errorf("token: decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("token: key must be %d bytes, got %d", KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("token: init cipher: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encode seals the pair into an opaque URL-safe token. A fresh random nonce
// is used on every call, so two tokens for the same pair never compare equal
// and recipients cannot be correlated by inspecting links.
func (c *Codec) Encode(recipientID, campaignID int64) (string, error) {
	payload := fmt.Sprintf("%d|%d", recipientID, campaignID)

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("token: nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(payload), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode recovers the (recipient, campaign) pair from a token. It either
// returns the exact pair that produced the token or one of the package
// sentinel errors; it never returns a different valid-looking pair.
func (c *Codec) Decode(tok string) (recipientID, campaignID int64, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return 0, 0, ErrMalformed
	}
	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return 0, 0, ErrMalformed
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return 0, 0, ErrAuthenticationFailed
	}

	parts := strings.Split(string(plain), "|")
	if len(parts) != 2 {
		return 0, 0, ErrPayloadInvalid
	}
	recipientID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, ErrPayloadInvalid
	}
	campaignID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, ErrPayloadInvalid
	}
	return recipientID, campaignID, nil
}
