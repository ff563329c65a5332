package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// OverviewResult summarizes the account and its transfer history
type OverviewResult struct {
	Balance         decimal.Decimal
	Attempts        int
	Succeeded       int
	Failed          int
	FailuresByPhase map[domain.Phase]int
	TotalMoved      decimal.Decimal // Sum of succeeded amounts
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	AccountRepo domain.AccountRepository
	AttemptRepo domain.AttemptRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	accountRepo domain.AccountRepository,
	attemptRepo domain.AttemptRepository,
) *DashboardService {
	return &DashboardService{
		AccountRepo: accountRepo,
		AttemptRepo: attemptRepo,
	}
}

// GetOverview calculates the account overview
// Logic:
//   - Balance: current account balance
//   - Succeeded/Failed: attempt counts by outcome
//   - FailuresByPhase: failed attempts grouped by the phase that failed
//   - TotalMoved: sum of the amounts of succeeded attempts
func (s *DashboardService) GetOverview(ctx context.Context) (*OverviewResult, error) {
	// 1. Current balance
	account, err := s.AccountRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	result := &OverviewResult{
		Balance:         account.Balance,
		FailuresByPhase: make(map[domain.Phase]int),
		TotalMoved:      decimal.Zero,
	}

	// 2. Attempt history
	count, err := s.AttemptRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if count == 0 {
		return result, nil
	}

	attempts, err := s.AttemptRepo.List(ctx, count, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	// 3. Aggregate
	for _, attempt := range attempts {
		result.Attempts++
		switch attempt.Outcome {
		case domain.AttemptOutcomeSucceeded:
			result.Succeeded++
			result.TotalMoved = result.TotalMoved.Add(attempt.Amount)
		case domain.AttemptOutcomeFailed:
			result.Failed++
			result.FailuresByPhase[attempt.FailedPhase]++
		}
	}

	return result, nil
}
