package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies why a transfer attempt was rejected or failed
type ErrorKind string

const (
	ErrorKindInvalidAmount      ErrorKind = "INVALID_AMOUNT"
	ErrorKindAmountTooLarge     ErrorKind = "AMOUNT_TOO_LARGE"
	ErrorKindInsufficientFunds  ErrorKind = "INSUFFICIENT_FUNDS"
	ErrorKindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	ErrorKindDatabaseError      ErrorKind = "DATABASE_ERROR"
	ErrorKindNetworkTimeout     ErrorKind = "NETWORK_TIMEOUT"
	ErrorKindTransferInProgress ErrorKind = "TRANSFER_IN_PROGRESS"
)

// TransferError is a transfer failure with a fixed, user-facing message.
// Two TransferErrors match under errors.Is when their kinds are equal.
type TransferError struct {
	Kind    ErrorKind
	Message string
}

func (e *TransferError) Error() string {
	return e.Message
}

// Is matches any TransferError of the same kind
func (e *TransferError) Is(target error) bool {
	t, ok := target.(*TransferError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation errors, reported before any step runs
var (
	ErrInvalidAmount = &TransferError{Kind: ErrorKindInvalidAmount, Message: "Please enter a valid amount"}
	// ErrInsufficientFunds is returned when the amount exceeds the balance at entry
	ErrInsufficientFunds = &TransferError{Kind: ErrorKindInsufficientFunds, Message: "Amount exceeds current balance"}
	ErrTransferInProgress = &TransferError{Kind: ErrorKindTransferInProgress, Message: "A transfer is already in progress"}
)

// Phase errors, each terminal for the current attempt
var (
	ErrServiceUnavailable = &TransferError{Kind: ErrorKindServiceUnavailable, Message: "Balance check failed - Service temporarily unavailable"}
	// ErrFundsCheckFailed is the balance check's own insufficient funds verdict
	ErrFundsCheckFailed = &TransferError{Kind: ErrorKindInsufficientFunds, Message: "Insufficient funds"}
	ErrDatabaseError    = &TransferError{Kind: ErrorKindDatabaseError, Message: "Deduction failed - Database error"}
	ErrNetworkTimeout   = &TransferError{Kind: ErrorKindNetworkTimeout, Message: "Transaction confirmation failed - Network timeout"}
)

// ErrAmountTooLarge matches any AmountTooLarge error regardless of limit
var ErrAmountTooLarge = &TransferError{Kind: ErrorKindAmountTooLarge, Message: "Amount exceeds the transfer limit"}

// NewAmountTooLargeError builds the AmountTooLarge error for the given limit
func NewAmountTooLargeError(limit decimal.Decimal) *TransferError {
	return &TransferError{
		Kind:    ErrorKindAmountTooLarge,
		Message: "Amount cannot exceed $" + limit.String(),
	}
}

// KindOf extracts the ErrorKind of err, or "" when err is not a TransferError
func KindOf(err error) ErrorKind {
	var te *TransferError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
