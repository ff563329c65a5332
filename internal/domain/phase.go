package domain

// Phase identifies one of the three ordered remote calls of a transfer attempt.
// The numeric value doubles as the Step ID shown to presentation clients.
type Phase int

const (
	PhaseBalanceCheck Phase = iota + 1
	PhaseDeduct
	PhaseConfirm
)

// Phases lists every phase in execution order
var Phases = []Phase{PhaseBalanceCheck, PhaseDeduct, PhaseConfirm}

// String returns the snake_case name used in logs, config and transport
func (p Phase) String() string {
	switch p {
	case PhaseBalanceCheck:
		return "balance_check"
	case PhaseDeduct:
		return "deduct"
	case PhaseConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Label returns the human readable step label
func (p Phase) Label() string {
	switch p {
	case PhaseBalanceCheck:
		return "Check Balance"
	case PhaseDeduct:
		return "Deduct Amount"
	case PhaseConfirm:
		return "Confirm Transaction"
	default:
		return ""
	}
}

// ProgressMessage returns the status message shown while the phase runs
func (p Phase) ProgressMessage() string {
	switch p {
	case PhaseBalanceCheck:
		return "Checking balance..."
	case PhaseDeduct:
		return "Deducting amount..."
	case PhaseConfirm:
		return "Confirming transaction..."
	default:
		return ""
	}
}

// MutatesBalance reports whether a failure in this phase must restore the
// opening balance. BalanceCheck runs before any mutation.
func (p Phase) MutatesBalance() bool {
	return p == PhaseDeduct || p == PhaseConfirm
}

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	return p >= PhaseBalanceCheck && p <= PhaseConfirm
}

// ParsePhase converts a snake_case phase name back to a Phase.
// Returns false for unknown names.
func ParsePhase(name string) (Phase, bool) {
	for _, p := range Phases {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}
