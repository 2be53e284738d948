// Package types defines the canonical domain model returned by the
// Coral client — addresses, object references, coins, checkpoints,
// transaction blocks, events, and the unified system-state summary.
//
// All types are plain structs with JSON struct tags matching the
// canonical wire shape. Integers that may exceed 2^53 travel as
// decimal strings so they survive every backend without precision
// loss.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AddressLength is the byte length of an account address and an
// object id.
const AddressLength = 32

// Errors returned when parsing addresses, object ids, and digests.
var (
	ErrEmptyString   = errors.New("empty input string")
	ErrMissingPrefix = errors.New("missing 0x prefix")
	ErrSyntax        = errors.New("invalid hex string")
	ErrAddressRange  = errors.New("hex string longer than 32 bytes")
)

// Address is a normalized 32-byte account address rendered as
// "0x" + 64 lowercase hex characters.
//
// An Address produced by ParseAddress is always in canonical form:
// normalization is idempotent.
type Address string

// ParseAddress validates and normalizes an address string.
//
// Short forms ("0x2") are accepted and left-padded to the full
// 32-byte width. Mixed case is accepted and lowered.
func ParseAddress(s string) (Address, error) {
	norm, err := normalizeHex(s)
	if err != nil {
		return "", err
	}
	return Address(norm), nil
}

// String returns the canonical "0x…" form.
func (a Address) String() string { return string(a) }

// Bytes returns the 32 raw address bytes. It panics if the address
// was not produced by ParseAddress.
func (a Address) Bytes() []byte {
	b, err := hex.DecodeString(string(a[2:]))
	if err != nil || len(b) != AddressLength {
		panic(fmt.Sprintf("types: malformed address %q", string(a)))
	}
	return b
}

// ObjectID identifies an on-chain object. It shares the address
// format: "0x" + 64 lowercase hex characters.
type ObjectID string

// ParseObjectID validates and normalizes an object id string.
func ParseObjectID(s string) (ObjectID, error) {
	norm, err := normalizeHex(s)
	if err != nil {
		return "", err
	}
	return ObjectID(norm), nil
}

// String returns the canonical "0x…" form.
func (id ObjectID) String() string { return string(id) }

func normalizeHex(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyString
	}
	if len(s) < 2 || (s[:2] != "0x" && s[:2] != "0X") {
		return "", ErrMissingPrefix
	}
	body := strings.ToLower(s[2:])
	if body == "" {
		return "", ErrSyntax
	}
	if len(body) > 2*AddressLength {
		return "", ErrAddressRange
	}
	for _, c := range body {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return "", ErrSyntax
		}
	}
	if pad := 2*AddressLength - len(body); pad > 0 {
		body = strings.Repeat("0", pad) + body
	}
	return "0x" + body, nil
}
