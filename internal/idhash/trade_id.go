// Package idhash derives deterministic identifiers for imported records.
// Re-importing the same source file reproduces the same IDs, so duplicates
// collapse onto ErrDuplicateKey instead of creating ghost trades.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeTradeID computes a deterministic trade_id.
// Formula: base58(SHA256(account_id|symbol|entered_at|sequence)), where
// sequence disambiguates multiple fills of the same symbol at the same
// millisecond within one import batch.
func ComputeTradeID(accountID, symbol string, enteredAt int64, sequence int) string {
	data := fmt.Sprintf("%s|%s|%d|%d", accountID, symbol, enteredAt, sequence)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// ComputeTransactionID computes a deterministic transaction_id.
// Formula: base58(SHA256(account_id|type|amount|occurred_at)).
func ComputeTransactionID(accountID, txType string, amount float64, occurredAt int64) string {
	data := fmt.Sprintf("%s|%s|%.8f|%d", accountID, txType, amount, occurredAt)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
