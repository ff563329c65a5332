package transfer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

func TestParseTransferRequest(t *testing.T) {
	balance := decimal.NewFromInt(800)

	tests := []struct {
		name       string
		raw        string
		wantAmount string
		wantErr    error
	}{
		{name: "Whole amount", raw: "500", wantAmount: "500"},
		{name: "Cents", raw: "12.34", wantAmount: "12.34"},
		{name: "Surrounding whitespace", raw: "  20 ", wantAmount: "20"},
		{name: "Exactly the balance", raw: "800", wantAmount: "800"},
		{name: "Empty", raw: "", wantErr: domain.ErrInvalidAmount},
		{name: "Letters", raw: "ten", wantErr: domain.ErrInvalidAmount},
		{name: "Trailing garbage", raw: "12abc", wantErr: domain.ErrInvalidAmount},
		{name: "Zero", raw: "0.00", wantErr: domain.ErrInvalidAmount},
		{name: "Negative", raw: "-1", wantErr: domain.ErrInvalidAmount},
		{name: "Huge exponent", raw: "1e2000000000", wantErr: domain.ErrInvalidAmount},
		{name: "Tiny exponent", raw: "1e-2000000000", wantErr: domain.ErrInvalidAmount},
		{name: "Small exponent", raw: "5E2", wantErr: domain.ErrInvalidAmount},
		{name: "Overlong input", raw: "0.000000000000000000000000000000001", wantErr: domain.ErrInvalidAmount},
		{name: "Above limit", raw: "1500", wantErr: domain.ErrAmountTooLarge},
		{name: "Above balance", raw: "800.01", wantErr: domain.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseTransferRequest(tt.raw, balance, DefaultMaxAmount)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, req.Amount.Equal(decimal.RequireFromString(tt.wantAmount)))
		})
	}
}

func TestParseTransferRequest_LimitCheckedBeforeBalance(t *testing.T) {
	_, err := ParseTransferRequest("2000", decimal.NewFromInt(100), DefaultMaxAmount)

	assert.True(t, errors.Is(err, domain.ErrAmountTooLarge))
	assert.Equal(t, "Amount cannot exceed $1000", err.Error())
}
