package enums

import "fmt"

// TransactionType categorizes entries in the wallet ledger.
type TransactionType string

const (
	TransactionTypeSubscriptionPayment TransactionType = "subscription_payment"
	TransactionTypeWalletTopup         TransactionType = "wallet_topup"
	TransactionTypeAdjustment          TransactionType = "adjustment"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeSubscriptionPayment,
	TransactionTypeWalletTopup,
	TransactionTypeAdjustment,
}

// IsValid reports whether the value matches the canonical transaction enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
