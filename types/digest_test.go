package types

import (
	"bytes"
	"errors"
	"testing"

	"github.com/btcsuite/btcutil/base58"
)

func TestParseDigest(t *testing.T) {
	raw := make([]byte, DigestLength)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	valid := base58.Encode(raw)

	d, err := ParseDigest(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != valid {
		t.Errorf("digest must keep its input form, got %s", d)
	}
	if !bytes.Equal(d.Bytes(), raw) {
		t.Error("Bytes round trip mismatch")
	}
}

func TestParseDigestRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"empty", "", ErrEmptyString},
		{"invalid characters", "not-base58-0OIl", ErrDigestSyntax},
		{"too short", base58.Encode(make([]byte, DigestLength-1)), ErrDigestLength},
		{"too long", base58.Encode(make([]byte, DigestLength+1)), ErrDigestLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDigest(tt.in); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}
