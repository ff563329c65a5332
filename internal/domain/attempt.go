package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttemptOutcome represents how a transfer attempt ended
type AttemptOutcome string

const (
	AttemptOutcomeSucceeded AttemptOutcome = "SUCCEEDED"
	AttemptOutcomeFailed    AttemptOutcome = "FAILED"
)

// AttemptRecord is the history entry written for every attempt that passed
// validation and ran at least one phase
type AttemptRecord struct {
	ID             uuid.UUID
	Amount         decimal.Decimal
	Outcome        AttemptOutcome
	FailedPhase    Phase     // Zero when the attempt succeeded
	ErrorKind      ErrorKind // Empty when the attempt succeeded
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Validate ensures the record adheres to domain rules
// Returns an error if validation fails
func (r *AttemptRecord) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("attempt ID cannot be empty")
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("attempt amount must be positive")
	}

	switch r.Outcome {
	case AttemptOutcomeSucceeded:
		if r.FailedPhase != 0 || r.ErrorKind != "" {
			return errors.New("succeeded attempt must not carry a failure")
		}
		// The deduction sticks only when every phase succeeded
		if !r.ClosingBalance.Equal(r.OpeningBalance.Sub(r.Amount)) {
			return errors.New("succeeded attempt must close at opening balance minus amount")
		}
	case AttemptOutcomeFailed:
		if !r.FailedPhase.Valid() {
			return errors.New("failed attempt must name the failed phase")
		}
		if r.ErrorKind == "" {
			return errors.New("failed attempt must carry an error kind")
		}
		// Rollback restores the opening balance whichever phase failed
		if !r.ClosingBalance.Equal(r.OpeningBalance) {
			return errors.New("failed attempt must close at the opening balance")
		}
	default:
		return errors.New("attempt outcome must be SUCCEEDED or FAILED")
	}

	if r.FinishedAt.Before(r.StartedAt) {
		return errors.New("attempt cannot finish before it starts")
	}

	return nil
}

// Duration returns how long the attempt ran
func (r *AttemptRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
