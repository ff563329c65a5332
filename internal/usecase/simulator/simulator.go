package simulator

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// DefaultDelay is the latency of every simulated remote call
const DefaultDelay = 1500 * time.Millisecond

// Config holds the latency and failure probabilities of the three phases
type Config struct {
	Delay                   time.Duration
	BalanceCheckFailureRate float64
	DeductFailureRate       float64
	ConfirmFailureRate      float64
}

// DefaultConfig returns the stock simulation settings
func DefaultConfig() Config {
	return Config{
		Delay:                   DefaultDelay,
		BalanceCheckFailureRate: 0.20,
		DeductFailureRate:       0.15,
		ConfirmFailureRate:      0.10,
	}
}

// Simulator runs the remote operation matching a phase
type Simulator struct {
	operations map[domain.Phase]*RemoteOperation
}

// NewSimulator builds the three phase operations from config
func NewSimulator(config Config, roller Roller, sleeper Sleeper, logger logrus.FieldLogger) *Simulator {
	configs := []OperationConfig{
		{
			Phase:              domain.PhaseBalanceCheck,
			FailureProbability: config.BalanceCheckFailureRate,
			Delay:              config.Delay,
			Failure:            domain.ErrServiceUnavailable,
			Check: func(in Input) error {
				if in.Balance.LessThan(in.Amount) {
					return domain.ErrFundsCheckFailed
				}
				return nil
			},
			Describe: func(in Input) string {
				return "Balance verified: " + domain.FormatMoney(in.Balance)
			},
		},
		{
			Phase:              domain.PhaseDeduct,
			FailureProbability: config.DeductFailureRate,
			Delay:              config.Delay,
			Failure:            domain.ErrDatabaseError,
			Describe: func(in Input) string {
				return "Amount deducted: " + domain.FormatMoney(in.Amount)
			},
		},
		{
			Phase:              domain.PhaseConfirm,
			FailureProbability: config.ConfirmFailureRate,
			Delay:              config.Delay,
			Failure:            domain.ErrNetworkTimeout,
			Describe: func(Input) string {
				return "Transaction complete"
			},
		},
	}

	operations := make(map[domain.Phase]*RemoteOperation, len(configs))
	for _, c := range configs {
		operations[c.Phase] = NewRemoteOperation(c, roller, sleeper, logger)
	}

	return &Simulator{operations: operations}
}

// Execute runs the operation of the given phase
func (s *Simulator) Execute(phase domain.Phase, in Input) (string, error) {
	op, ok := s.operations[phase]
	if !ok {
		return "", fmt.Errorf("no remote operation for phase %s", phase)
	}
	return op.Execute(in)
}
