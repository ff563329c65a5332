package transfer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/domain"
	"github.com/simaogato/fundsflow-backend/internal/usecase/simulator"
)

// PhaseRunner executes the remote call of a single phase
type PhaseRunner interface {
	Execute(phase domain.Phase, in simulator.Input) (string, error)
}

// Listener is called synchronously with every published snapshot
type Listener func(domain.Snapshot)

// Orchestrator drives a transfer attempt through its three phases.
// It exclusively owns the account balance and the transaction state.
type Orchestrator struct {
	AccountRepo domain.AccountRepository
	AttemptRepo domain.AttemptRepository

	phases    PhaseRunner
	maxAmount decimal.Decimal
	logger    logrus.FieldLogger
	hub       *Hub
	listener  Listener
	now       func() time.Time

	inFlight atomic.Bool

	mu    sync.Mutex
	state *domain.TransactionState
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(
	accountRepo domain.AccountRepository,
	attemptRepo domain.AttemptRepository,
	phases PhaseRunner,
	maxAmount decimal.Decimal,
	logger logrus.FieldLogger,
) *Orchestrator {
	return &Orchestrator{
		AccountRepo: accountRepo,
		AttemptRepo: attemptRepo,
		phases:      phases,
		maxAmount:   maxAmount,
		logger:      logger,
		hub:         NewHub(8),
		now:         time.Now,
		state:       domain.NewTransactionState(),
	}
}

// OnStateChange registers a listener for every snapshot. Must be called
// before the first Start.
func (o *Orchestrator) OnStateChange(listener Listener) {
	o.listener = listener
}

// Subscribe returns a channel of snapshots and a func to stop receiving them
func (o *Orchestrator) Subscribe() (<-chan domain.Snapshot, func()) {
	return o.hub.Subscribe()
}

// InProgress reports whether a transfer is running
func (o *Orchestrator) InProgress() bool {
	return o.inFlight.Load()
}

// State returns the current snapshot with the stored account balance
func (o *Orchestrator) State(ctx context.Context) (domain.Snapshot, error) {
	account, err := o.AccountRepo.Get(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to load account: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Snapshot(account.Balance), nil
}

// Start runs one transfer attempt for the raw amount entered by the user
// Logic:
//  1. Reject the call while another transfer is in flight
//  2. Validate the amount; a rejection leaves the steps untouched
//  3. Reset all steps to pending and mark the transfer in progress
//  4. Run BalanceCheck, Deduct and Confirm in order, committing the new
//     balance once Deduct succeeds
//  5. On a phase failure mark that step failed, restore the opening balance
//     if Deduct or Confirm failed, and skip the remaining phases
//  6. Always clear the in-progress flag and record the attempt
//
// Phase failures end the attempt with an error status in the returned
// snapshot; only validation and repository failures are returned as errors.
func (o *Orchestrator) Start(ctx context.Context, rawAmount string) (*domain.Snapshot, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrTransferInProgress
	}
	defer o.inFlight.Store(false)

	account, err := o.AccountRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	request, err := ParseTransferRequest(rawAmount, account.Balance, o.maxAmount)
	if err != nil {
		o.update(account.Balance, func(s *domain.TransactionState) error {
			s.AmountInput = rawAmount
			s.Reject(err)
			return nil
		})
		o.logger.WithFields(logrus.Fields{
			"amount_input": rawAmount,
			"error_kind":   domain.KindOf(err),
		}).Info("transfer rejected")
		return nil, err
	}

	return o.run(ctx, account, rawAmount, request)
}

func (o *Orchestrator) run(ctx context.Context, account *domain.Account, rawAmount string, request TransferRequest) (*domain.Snapshot, error) {
	record := &domain.AttemptRecord{
		ID:             uuid.New(),
		Amount:         request.Amount,
		OpeningBalance: account.Balance,
		StartedAt:      o.now(),
	}
	logger := o.logger.WithFields(logrus.Fields{
		"attempt_id": record.ID.String(),
		"amount":     request.Amount.String(),
	})
	logger.Info("transfer started")

	o.update(account.Balance, func(s *domain.TransactionState) error {
		s.AmountInput = rawAmount
		s.Reset()
		return nil
	})

	balance, runErr := o.runPhases(ctx, account, request, record, logger)

	snapshot := o.finish(balance, runErr)
	record.ClosingBalance = balance
	record.FinishedAt = o.now()

	if runErr != nil {
		logger.WithError(runErr).Error("transfer aborted")
		return nil, runErr
	}

	o.recordAttempt(ctx, record, logger)
	return &snapshot, nil
}

// runPhases executes the phases in order and returns the resulting balance.
// The returned error reports repository or state failures only.
func (o *Orchestrator) runPhases(
	ctx context.Context,
	account *domain.Account,
	request TransferRequest,
	record *domain.AttemptRecord,
	logger logrus.FieldLogger,
) (decimal.Decimal, error) {
	opening := account.Balance
	balance := opening

	for _, phase := range domain.Phases {
		phaseLogger := logger.WithField("phase", phase.String())

		if err := o.update(balance, func(s *domain.TransactionState) error { return s.Begin(phase) }); err != nil {
			return balance, fmt.Errorf("failed to begin %s: %w", phase, err)
		}

		result, phaseErr := o.phases.Execute(phase, simulator.Input{Amount: request.Amount, Balance: opening})

		if phaseErr != nil {
			if phase.MutatesBalance() {
				if err := o.AccountRepo.UpdateBalance(ctx, account.ID, opening); err != nil {
					return balance, fmt.Errorf("failed to roll back balance: %w", err)
				}
				balance = opening
			}

			if err := o.update(balance, func(s *domain.TransactionState) error { return s.Fail(phase, phaseErr) }); err != nil {
				return balance, fmt.Errorf("failed to mark %s failed: %w", phase, err)
			}

			record.Outcome = domain.AttemptOutcomeFailed
			record.FailedPhase = phase
			record.ErrorKind = domain.KindOf(phaseErr)
			phaseLogger.WithError(phaseErr).Warn("transfer failed")
			return balance, nil
		}

		if phase == domain.PhaseDeduct {
			committed := opening.Sub(request.Amount)
			if err := o.AccountRepo.UpdateBalance(ctx, account.ID, committed); err != nil {
				return balance, fmt.Errorf("failed to commit balance: %w", err)
			}
			balance = committed
		}

		if err := o.update(balance, func(s *domain.TransactionState) error { return s.Complete(phase, result) }); err != nil {
			return balance, fmt.Errorf("failed to complete %s: %w", phase, err)
		}
		phaseLogger.WithField("result", result).Debug("phase completed")
	}

	o.update(balance, func(s *domain.TransactionState) error {
		s.Succeed()
		return nil
	})
	record.Outcome = domain.AttemptOutcomeSucceeded
	logger.WithField("balance", balance.String()).Info("transfer completed")
	return balance, nil
}

// finish clears the in-progress flag and publishes the terminal snapshot.
// A non-nil cause aborts the attempt so no step is left processing.
func (o *Orchestrator) finish(balance decimal.Decimal, cause error) domain.Snapshot {
	o.mu.Lock()
	if cause != nil {
		o.state.Abort(cause)
	}
	o.state.Finish()
	snapshot := o.state.Snapshot(balance)
	o.mu.Unlock()

	o.publish(snapshot)
	return snapshot
}

// update mutates the state under lock and publishes the resulting snapshot
func (o *Orchestrator) update(balance decimal.Decimal, mutate func(s *domain.TransactionState) error) error {
	o.mu.Lock()
	err := mutate(o.state)
	snapshot := o.state.Snapshot(balance)
	o.mu.Unlock()

	if err != nil {
		return err
	}

	o.publish(snapshot)
	return nil
}

func (o *Orchestrator) publish(snapshot domain.Snapshot) {
	o.hub.Publish(snapshot)
	if o.listener != nil {
		o.listener(snapshot)
	}
}

// recordAttempt stores the attempt history entry. Failures are logged and
// never change the outcome of the transfer.
func (o *Orchestrator) recordAttempt(ctx context.Context, record *domain.AttemptRecord, logger logrus.FieldLogger) {
	if err := record.Validate(); err != nil {
		logger.WithError(err).Error("invalid attempt record")
		return
	}

	if err := o.AttemptRepo.Create(ctx, record); err != nil {
		logger.WithError(err).Warn("failed to record attempt")
	}
}
