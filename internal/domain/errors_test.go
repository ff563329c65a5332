package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransferError_Is(t *testing.T) {
	// Both insufficient funds errors share a kind
	assert.True(t, errors.Is(ErrFundsCheckFailed, ErrInsufficientFunds))
	assert.True(t, errors.Is(ErrInsufficientFunds, ErrFundsCheckFailed))

	assert.False(t, errors.Is(ErrDatabaseError, ErrNetworkTimeout))

	wrapped := fmt.Errorf("deduct: %w", ErrDatabaseError)
	assert.True(t, errors.Is(wrapped, ErrDatabaseError))
	assert.Equal(t, ErrorKindDatabaseError, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
}

func TestNewAmountTooLargeError(t *testing.T) {
	err := NewAmountTooLargeError(decimal.NewFromInt(1000))

	assert.Equal(t, "Amount cannot exceed $1000", err.Error())
	assert.True(t, errors.Is(err, ErrAmountTooLarge))
}
