package simulator

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Input carries what a phase may inspect. Not every phase reads every field.
type Input struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// Sleeper suspends the caller for the phase latency
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to the Sleeper interface
type SleeperFunc func(d time.Duration)

// Sleep calls f(d)
func (f SleeperFunc) Sleep(d time.Duration) {
	f(d)
}

// RealSleeper blocks on time.Sleep
var RealSleeper Sleeper = SleeperFunc(time.Sleep)

// OperationConfig describes one remote call
type OperationConfig struct {
	Phase              domain.Phase
	FailureProbability float64
	Delay              time.Duration
	// Failure is returned when the random draw falls below FailureProbability
	Failure *domain.TransferError
	// Check runs only after the random draw passed. Nil means no check.
	Check func(in Input) error
	// Describe renders the success result
	Describe func(in Input) string
}

// RemoteOperation simulates one remote call with a fixed latency and an
// independent random failure
type RemoteOperation struct {
	config  OperationConfig
	roller  Roller
	sleeper Sleeper
	logger  logrus.FieldLogger
}

// NewRemoteOperation creates a RemoteOperation
func NewRemoteOperation(config OperationConfig, roller Roller, sleeper Sleeper, logger logrus.FieldLogger) *RemoteOperation {
	return &RemoteOperation{
		config:  config,
		roller:  roller,
		sleeper: sleeper,
		logger:  logger.WithField("phase", config.Phase.String()),
	}
}

// Phase returns the phase this operation simulates
func (o *RemoteOperation) Phase() domain.Phase {
	return o.config.Phase
}

// Execute waits the full delay and then settles.
// Logic:
//  1. Sleep for the configured delay, whatever the outcome
//  2. Draw; below the failure probability returns the phase failure
//  3. Run the deterministic check, if any
//  4. Return the success result
func (o *RemoteOperation) Execute(in Input) (string, error) {
	o.sleeper.Sleep(o.config.Delay)

	draw := o.roller.Roll(o.config.Phase)
	if draw < o.config.FailureProbability {
		o.logger.WithField("draw", draw).Warn("simulated remote failure")
		return "", o.config.Failure
	}

	if o.config.Check != nil {
		if err := o.config.Check(in); err != nil {
			o.logger.WithError(err).Warn("remote check rejected the transfer")
			return "", err
		}
	}

	result := o.config.Describe(in)
	o.logger.WithField("result", result).Debug("remote call settled")
	return result, nil
}
