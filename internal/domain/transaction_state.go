package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// StatusKind tags the status message shown alongside the steps
type StatusKind string

const (
	StatusKindNone       StatusKind = "none"
	StatusKindProcessing StatusKind = "processing"
	StatusKindSuccess    StatusKind = "success"
	StatusKindError      StatusKind = "error"
)

// Fixed status messages
const (
	MessageTransferSucceeded = "Transaction completed successfully!"
	MessageTransferFailed    = "Transaction failed"
)

// TransactionState aggregates the steps and status of the current attempt.
// It is owned by the orchestrator; presentation only ever sees Snapshots.
type TransactionState struct {
	Steps              []Step
	StatusMessage      string
	StatusKind         StatusKind
	TransferInProgress bool
	AmountInput        string // Raw amount as last entered by the user
}

// NewTransactionState returns the idle state shown before any attempt
func NewTransactionState() *TransactionState {
	return &TransactionState{
		Steps:      NewSteps(),
		StatusKind: StatusKindNone,
	}
}

// Reject records a validation failure. Steps are left untouched.
func (s *TransactionState) Reject(err error) {
	s.StatusMessage = err.Error()
	s.StatusKind = StatusKindError
}

// Reset prepares the state for a new attempt: all steps pending, status
// cleared and the transfer marked in progress
func (s *TransactionState) Reset() {
	s.Steps = NewSteps()
	s.StatusMessage = ""
	s.StatusKind = StatusKindNone
	s.TransferInProgress = true
}

// Begin marks the phase's step as processing and shows its progress message
func (s *TransactionState) Begin(phase Phase) error {
	if active, ok := s.ActivePhase(); ok {
		return fmt.Errorf("cannot begin %s while %s is processing", phase, active)
	}

	step, err := s.step(phase)
	if err != nil {
		return err
	}
	if err := step.transition(StepStatusProcessing); err != nil {
		return err
	}

	s.StatusMessage = phase.ProgressMessage()
	s.StatusKind = StatusKindProcessing
	return nil
}

// Complete marks the phase's step as completed with the phase result
func (s *TransactionState) Complete(phase Phase, result string) error {
	step, err := s.step(phase)
	if err != nil {
		return err
	}
	if err := step.transition(StepStatusCompleted); err != nil {
		return err
	}
	step.Result = result
	return nil
}

// Fail marks the phase's step as failed and sets the error status.
// Steps after the failed one stay pending.
func (s *TransactionState) Fail(phase Phase, cause error) error {
	step, err := s.step(phase)
	if err != nil {
		return err
	}
	if err := step.transition(StepStatusFailed); err != nil {
		return err
	}

	s.StatusMessage = fmt.Sprintf("%s: %s", MessageTransferFailed, cause.Error())
	s.StatusKind = StatusKindError
	return nil
}

// Succeed sets the success status and clears the stored amount input
func (s *TransactionState) Succeed() {
	s.StatusMessage = MessageTransferSucceeded
	s.StatusKind = StatusKindSuccess
	s.AmountInput = ""
}

// Abort ends an attempt interrupted by an infrastructure error. The step
// still processing, if any, is marked failed and the error status is set.
func (s *TransactionState) Abort(cause error) {
	if phase, ok := s.ActivePhase(); ok {
		if step, err := s.step(phase); err == nil {
			_ = step.transition(StepStatusFailed)
		}
	}

	s.StatusMessage = fmt.Sprintf("%s: %s", MessageTransferFailed, cause.Error())
	s.StatusKind = StatusKindError
}

// Finish ends the attempt regardless of its outcome
func (s *TransactionState) Finish() {
	s.TransferInProgress = false
}

// ActivePhase returns the phase whose step is processing, if any
func (s *TransactionState) ActivePhase() (Phase, bool) {
	for _, step := range s.Steps {
		if step.Status == StepStatusProcessing {
			return step.ID, true
		}
	}
	return 0, false
}

// StepStatus returns the status of the phase's step
func (s *TransactionState) StepStatus(phase Phase) StepStatus {
	for _, step := range s.Steps {
		if step.ID == phase {
			return step.Status
		}
	}
	return ""
}

// Snapshot copies the state together with the balance to render
func (s *TransactionState) Snapshot(balance decimal.Decimal) Snapshot {
	steps := make([]Step, len(s.Steps))
	copy(steps, s.Steps)

	return Snapshot{
		Balance:            balance,
		Steps:              steps,
		StatusMessage:      s.StatusMessage,
		StatusKind:         s.StatusKind,
		TransferInProgress: s.TransferInProgress,
		AmountInput:        s.AmountInput,
	}
}

func (s *TransactionState) step(phase Phase) (*Step, error) {
	for i := range s.Steps {
		if s.Steps[i].ID == phase {
			return &s.Steps[i], nil
		}
	}
	return nil, errors.New("unknown phase: " + phase.String())
}

// Snapshot is a read-only copy of the transaction state handed to
// presentation adapters
type Snapshot struct {
	Balance            decimal.Decimal
	Steps              []Step
	StatusMessage      string
	StatusKind         StatusKind
	TransferInProgress bool
	AmountInput        string
}
