package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// ErrAccountNotFound is returned before the account has been opened
var ErrAccountNotFound = domain.ErrAccountNotFound

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	mu      sync.RWMutex
	account *domain.Account
}

// NewAccountRepository creates a new account repository
func NewAccountRepository() domain.AccountRepository {
	return &accountRepository{}
}

// Get returns a copy of the account
func (r *accountRepository) Get(ctx context.Context) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.account == nil {
		return nil, ErrAccountNotFound
	}

	account := *r.account
	return &account, nil
}

// Create opens the account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.account != nil {
		return fmt.Errorf("account %s already exists", r.account.ID)
	}

	stored := *account
	r.account = &stored
	return nil
}

// UpdateBalance overwrites the balance of the account
func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.account == nil || r.account.ID != id {
		return fmt.Errorf("failed to update balance: %w", ErrAccountNotFound)
	}

	if balance.IsNegative() {
		return errors.New("failed to update balance: balance must not be negative")
	}

	r.account.Balance = balance
	return nil
}
