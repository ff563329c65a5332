package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents the single account whose balance transfers draw from
type Account struct {
	ID      uuid.UUID
	Name    string
	Balance decimal.Decimal // Never negative
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return errors.New("account ID cannot be empty")
	}

	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}

	if a.Balance.IsNegative() {
		return errors.New("account balance must not be negative")
	}

	return nil
}
