package model

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoSize is the fixed size of the on-chain memo field in bytes.
const MemoSize = 32

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// ToMinorUnits converts a decimal-string amount into integer minor units for
// the given number of token decimals. Amounts stay decimal strings until this
// point so that no floating-point error is introduced upstream.
//
// It fails when the amount does not parse, is not positive, or carries more
// fractional digits than the token supports.
func ToMinorUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}
	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return shifted.BigInt(), nil
}

// EncodeMemo encodes a free-text memo into the fixed 32-byte field the
// transfer boundary expects, right-padded with zero bytes. An empty memo
// encodes to nil so the transfer carries no memo at all.
func EncodeMemo(memo string) ([]byte, error) {
	if memo == "" {
		return nil, nil
	}
	raw := []byte(memo)
	if len(raw) > MemoSize {
		return nil, fmt.Errorf("memo exceeds %d bytes: %q", MemoSize, memo)
	}
	padded := make([]byte, MemoSize)
	copy(padded, raw)
	return padded, nil
}
