// Package address validates Solana token mint addresses.
package address

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-token-analyst/internal/datasource"
)

// WSOLMint is the wrapped SOL mint, a well-known always-valid address.
const WSOLMint = "So11111111111111111111111111111111111111112"

// Validate checks that addr is a base58-encoded 32-byte value. Failures
// wrap datasource.ErrInvalidAddress.
func Validate(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty", datasource.ErrInvalidAddress)
	}
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: not base58", datasource.ErrInvalidAddress, addr)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("%w: %s: decodes to %d bytes, want 32", datasource.ErrInvalidAddress, addr, len(decoded))
	}
	return nil
}

// IsOnCurve reports whether the address is a point on the ed25519 curve.
// Keypair-owned accounts are on-curve; program-derived addresses (many
// launchpad mints) are off-curve. Informational only: both are valid
// mints. Returns an error for addresses that fail Validate.
func IsOnCurve(addr string) (bool, error) {
	if err := Validate(addr); err != nil {
		return false, err
	}
	decoded, _ := base58.Decode(addr)
	_, err := new(edwards25519.Point).SetBytes(decoded)
	return err == nil, nil
}
