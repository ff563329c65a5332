package domain

import "fmt"

// StepStatus represents the lifecycle status of a single step
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusProcessing StepStatus = "processing"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
)

// allowedStepTransitions maps a status to the statuses it may move to.
// completed and failed are terminal within one attempt.
var allowedStepTransitions = map[StepStatus][]StepStatus{
	StepStatusPending:    {StepStatusProcessing},
	StepStatusProcessing: {StepStatusCompleted, StepStatusFailed},
	StepStatusCompleted:  {},
	StepStatusFailed:     {},
}

// IsTerminal reports whether no further transition is allowed from s
func (s StepStatus) IsTerminal() bool {
	return s == StepStatusCompleted || s == StepStatusFailed
}

// CanTransition checks if a step may move from one status to another
func CanTransition(from, to StepStatus) bool {
	allowed, exists := allowedStepTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Step represents one phase of a transfer as seen by presentation clients
type Step struct {
	ID     Phase
	Label  string
	Status StepStatus
	Result string // Success result of the phase, empty until completed
}

// NewSteps returns the three steps of an attempt, all pending
func NewSteps() []Step {
	steps := make([]Step, 0, len(Phases))
	for _, p := range Phases {
		steps = append(steps, Step{
			ID:     p,
			Label:  p.Label(),
			Status: StepStatusPending,
		})
	}
	return steps
}

// transition moves the step to the given status if the move is allowed
func (s *Step) transition(to StepStatus) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("invalid step transition for %s: %s -> %s", s.ID, s.Status, to)
	}
	s.Status = to
	return nil
}
