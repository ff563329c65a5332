package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/domain"
	"github.com/simaogato/fundsflow-backend/internal/usecase/simulator"
)

// Config holds the settings read from the environment
type Config struct {
	GrpcAddr  string `env:"GRPC_ADDR" envDefault:":8080"`
	APIToken  string `env:"API_TOKEN" envDefault:"dev-token"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	InitialBalance decimal.Decimal `env:"INITIAL_BALANCE" envDefault:"1000.00"`
	MaxAmount      decimal.Decimal `env:"MAX_AMOUNT" envDefault:"1000"`

	ConfigSimulation
}

// ConfigSimulation tunes the simulated remote calls
type ConfigSimulation struct {
	PhaseDelay              time.Duration `env:"PHASE_DELAY" envDefault:"1500ms"`
	BalanceCheckFailureRate float64       `env:"BALANCE_CHECK_FAILURE_RATE" envDefault:"0.20"`
	DeductFailureRate       float64       `env:"DEDUCT_FAILURE_RATE" envDefault:"0.15"`
	ConfirmFailureRate      float64       `env:"CONFIRM_FAILURE_RATE" envDefault:"0.10"`
	RandomSeed              int64         `env:"RANDOM_SEED" envDefault:"0"`
	// ForceFailPhase makes every attempt fail at the named phase, or never
	// fail when set to "none". Empty keeps the random draw.
	ForceFailPhase string `env:"FORCE_FAIL_PHASE"`
}

// ForceNoFailure is the FORCE_FAIL_PHASE value that makes every phase succeed
const ForceNoFailure = "none"

var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
		return decimal.NewFromString(v)
	},
}

// LoadDotEnv copies variables from the given files (".env" by default) into
// the environment. Variables that are already set win and missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses the environment into a validated Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithFuncs(cfg, parsers); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges env tags cannot express
func (c *Config) Validate() error {
	if c.InitialBalance.IsNegative() {
		return errors.New("INITIAL_BALANCE must not be negative")
	}
	if !c.MaxAmount.IsPositive() {
		return errors.New("MAX_AMOUNT must be positive")
	}
	if c.PhaseDelay < 0 {
		return errors.New("PHASE_DELAY must not be negative")
	}

	rates := map[string]float64{
		"BALANCE_CHECK_FAILURE_RATE": c.BalanceCheckFailureRate,
		"DEDUCT_FAILURE_RATE":        c.DeductFailureRate,
		"CONFIRM_FAILURE_RATE":       c.ConfirmFailureRate,
	}
	for name, rate := range rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}

	if c.ForceFailPhase != "" && c.ForceFailPhase != ForceNoFailure {
		if _, ok := domain.ParsePhase(c.ForceFailPhase); !ok {
			return fmt.Errorf("FORCE_FAIL_PHASE must be one of balance_check, deduct, confirm, none; got %q", c.ForceFailPhase)
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.New("LOG_FORMAT must be text or json")
	}

	return nil
}

// Simulation returns the simulator settings
func (c *Config) Simulation() simulator.Config {
	return simulator.Config{
		Delay:                   c.PhaseDelay,
		BalanceCheckFailureRate: c.BalanceCheckFailureRate,
		DeductFailureRate:       c.DeductFailureRate,
		ConfirmFailureRate:      c.ConfirmFailureRate,
	}
}

// Roller returns the outcome source: scripted when an outcome is forced,
// seeded random otherwise
func (c *Config) Roller() simulator.Roller {
	if c.ForceFailPhase == ForceNoFailure {
		return simulator.AlwaysSucceed()
	}
	if phase, ok := domain.ParsePhase(c.ForceFailPhase); ok {
		return simulator.FailAt(phase)
	}
	return simulator.NewRandomRoller(c.RandomSeed)
}

// NewLogger builds the process logger
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	// Validate has already rejected unknown levels
	level, _ := logrus.ParseLevel(c.LogLevel)
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableQuote: true,
		})
	}
	return logger
}
