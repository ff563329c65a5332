package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
		errMsg  string
	}{
		{
			name: "Opening balance should pass",
			account: Account{
				ID:      uuid.New(),
				Name:    "Checking",
				Balance: decimal.NewFromInt(1000),
			},
			wantErr: false,
		},
		{
			name: "Zero balance should pass",
			account: Account{
				ID:      uuid.New(),
				Name:    "Checking",
				Balance: decimal.Zero,
			},
			wantErr: false,
		},
		{
			name: "Negative balance should fail",
			account: Account{
				ID:      uuid.New(),
				Name:    "Checking",
				Balance: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "account balance must not be negative",
		},
		{
			name: "Empty name should fail",
			account: Account{
				ID:      uuid.New(),
				Balance: decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "account name cannot be empty",
		},
		{
			name: "Nil ID should fail",
			account: Account{
				Name:    "Checking",
				Balance: decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "account ID cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
