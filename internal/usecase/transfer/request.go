package transfer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// maxAmountInputLength bounds the raw input; longer strings are never a valid amount
const maxAmountInputLength = 32

// DefaultMaxAmount is the largest amount a single transfer may move
var DefaultMaxAmount = decimal.NewFromInt(1000)

// TransferRequest is a validated transfer amount
type TransferRequest struct {
	Amount decimal.Decimal
}

// ParseTransferRequest validates the raw amount entered by the user
// Logic:
//  1. Unparsable, exponent notation, overlong, zero or negative amounts are invalid
//  2. Amounts above maxAmount are too large
//  3. Amounts above the current balance exceed the available funds
func ParseTransferRequest(rawAmount string, balance, maxAmount decimal.Decimal) (TransferRequest, error) {
	trimmed := strings.TrimSpace(rawAmount)
	// Exponents reach 2^31 and make every later comparison rescale without bound
	if len(trimmed) > maxAmountInputLength || strings.ContainsAny(trimmed, "eE") {
		return TransferRequest{}, domain.ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return TransferRequest{}, domain.ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return TransferRequest{}, domain.NewAmountTooLargeError(maxAmount)
	}

	if amount.GreaterThan(balance) {
		return TransferRequest{}, domain.ErrInsufficientFunds
	}

	return TransferRequest{Amount: amount}, nil
}
