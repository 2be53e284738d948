package types

import (
	"errors"

	"github.com/btcsuite/btcutil/base58"
)

// DigestLength is the byte length of a transaction or checkpoint
// digest.
const DigestLength = 32

var (
	ErrDigestSyntax = errors.New("invalid base58 string")
	ErrDigestLength = errors.New("digest must decode to 32 bytes")
)

// Digest is a content-addressed hash of a transaction or checkpoint,
// rendered in base58.
type Digest string

// ParseDigest validates a digest string. The input must be valid
// base58 decoding to exactly 32 bytes.
func ParseDigest(s string) (Digest, error) {
	if s == "" {
		return "", ErrEmptyString
	}
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return "", ErrDigestSyntax
	}
	if len(raw) != DigestLength {
		return "", ErrDigestLength
	}
	return Digest(s), nil
}

// String returns the base58 form.
func (d Digest) String() string { return string(d) }

// Bytes returns the 32 raw digest bytes.
func (d Digest) Bytes() []byte { return base58.Decode(string(d)) }
