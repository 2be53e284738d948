package coraltest

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

// Compile-time interface check.
var _ coral.Signer = (*Signer)(nil)

// Signer is a deterministic ed25519 test signer.
type Signer struct {
	addr types.Address
	priv ed25519.PrivateKey
}

// NewSigner derives a signer from a 32-byte seed. The address is the
// seed itself, which keeps test fixtures readable.
func NewSigner(seed [32]byte) *Signer {
	var hexAddr [2 + 2*len(seed)]byte
	const digits = "0123456789abcdef"
	hexAddr[0], hexAddr[1] = '0', 'x'
	for i, b := range seed {
		hexAddr[2+2*i] = digits[b>>4]
		hexAddr[3+2*i] = digits[b&0x0f]
	}
	return &Signer{
		addr: types.Address(hexAddr[:]),
		priv: ed25519.NewKeyFromSeed(seed[:]),
	}
}

func (s *Signer) Address() types.Address { return s.addr }

func (s *Signer) SignTransaction(_ context.Context, txBytes []byte) (string, error) {
	sig := ed25519.Sign(s.priv, txBytes)
	return base64.StdEncoding.EncodeToString(sig), nil
}
