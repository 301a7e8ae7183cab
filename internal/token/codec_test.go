package token

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNewRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"too long", base64.StdEncoding.EncodeToString(make([]byte, 64))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.key); err == nil {
				t.Errorf("New(%q) expected error, got nil", tt.key)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	pairs := []struct {
		recipient, campaign int64
	}{
		{42, 7},
		{1, 1},
		{0, 0},
		{987654321, 123456789},
	}
	for _, p := range pairs {
		tok, err := c.Encode(p.recipient, p.campaign)
		if err != nil {
			t.Fatalf("Encode(%d, %d) error: %v", p.recipient, p.campaign, err)
		}
		r, cp, err := c.Decode(tok)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if r != p.recipient || cp != p.campaign {
			t.Errorf("Decode = (%d, %d), want (%d, %d)", r, cp, p.recipient, p.campaign)
		}
	}
}

func TestEncodeUnlinkable(t *testing.T) {
	c := newTestCodec(t)

	a, err := c.Encode(42, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encode(42, 7)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two Encode calls for the same pair produced identical tokens")
	}
}

// Flipping any single byte of a valid token must fail decoding; it must never
// silently yield a different pair.
func TestDecodeNonMalleable(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.Encode(42, 7)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatal(err)
	}

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01

		r, cp, err := c.Decode(base64.RawURLEncoding.EncodeToString(mutated))
		if err == nil {
			t.Fatalf("byte %d: mutated token decoded to (%d, %d)", i, r, cp)
		}
		if err != ErrAuthenticationFailed && err != ErrMalformed {
			t.Errorf("byte %d: err = %v, want ErrAuthenticationFailed or ErrMalformed", i, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	c := newTestCodec(t)

	tests := []string{
		"",
		"not!!base64??",
		"aGVsbG8",                // valid base64, far too short
		base64.RawURLEncoding.EncodeToString(make([]byte, 10)),
	}
	for _, tok := range tests {
		if _, _, err := c.Decode(tok); err != ErrMalformed {
			t.Errorf("Decode(%q) err = %v, want ErrMalformed", tok, err)
		}
	}
}

func TestDecodeWrongKey(t *testing.T) {
	a := newTestCodec(t)
	b := newTestCodec(t)

	tok, err := a.Encode(42, 7)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Decode(tok); err != ErrAuthenticationFailed {
		t.Errorf("Decode with wrong key err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	c := newTestCodec(t)

	seal := func(payload string) string {
		nonce := make([]byte, c.aead.NonceSize())
		rand.Read(nonce)
		return base64.RawURLEncoding.EncodeToString(c.aead.Seal(nonce, nonce, []byte(payload), nil))
	}

	tests := []string{
		"no separator",
		"1|2|3",
		"abc|7",
		"42|xyz",
		"|",
	}
	for _, payload := range tests {
		if _, _, err := c.Decode(seal(payload)); err != ErrPayloadInvalid {
			t.Errorf("payload %q: err = %v, want ErrPayloadInvalid", payload, err)
		}
	}
}
