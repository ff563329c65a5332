package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAccountNotFound is returned by repositories before the account has been opened
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// Get retrieves the account
	// Returns an error if the account has not been opened yet
	Get(ctx context.Context) (*Account, error)

	// Create opens the account
	// Returns an error if an account already exists
	Create(ctx context.Context, account *Account) error

	// UpdateBalance overwrites the balance of the account with the given ID
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// AttemptRepository defines the interface for attempt history operations
type AttemptRepository interface {
	// Create stores a finished attempt
	Create(ctx context.Context, attempt *AttemptRecord) error

	// List retrieves a paginated list of attempts, newest first
	List(ctx context.Context, limit, offset int) ([]*AttemptRecord, error)

	// Count returns the total number of attempts
	Count(ctx context.Context) (int, error)
}
