package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Fixed identity of the single simulated account
var (
	PRIMARY_ACCOUNT_ID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	PRIMARY_ACCOUNT_NAME = "Primary Checking"
)

// DefaultOpeningBalance is the balance the account is opened with
var DefaultOpeningBalance = decimal.NewFromInt(1000)

// AccountSeeder opens the simulated account at process start
type AccountSeeder struct {
	repo           domain.AccountRepository
	openingBalance decimal.Decimal
}

// NewAccountSeeder creates a new AccountSeeder instance
func NewAccountSeeder(repo domain.AccountRepository, openingBalance decimal.Decimal) *AccountSeeder {
	return &AccountSeeder{
		repo:           repo,
		openingBalance: openingBalance,
	}
}

// Seed ensures the account exists
// If it doesn't exist, it creates it with the opening balance
func (s *AccountSeeder) Seed(ctx context.Context) (*domain.Account, error) {
	// Try to get the account first
	if existing, err := s.repo.Get(ctx); err == nil {
		return existing, nil
	}

	if s.openingBalance.IsNegative() {
		return nil, errors.New("opening balance must not be negative")
	}

	account := &domain.Account{
		ID:      PRIMARY_ACCOUNT_ID,
		Name:    PRIMARY_ACCOUNT_NAME,
		Balance: s.openingBalance,
	}

	// Validate before creating
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}
