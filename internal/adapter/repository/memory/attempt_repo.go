package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// attemptRepository implements domain.AttemptRepository
type attemptRepository struct {
	mu       sync.RWMutex
	attempts []*domain.AttemptRecord // Oldest first
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository() domain.AttemptRepository {
	return &attemptRepository{}
}

// Create appends a copy of the attempt
func (r *attemptRepository) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if attempt == nil {
		return errors.New("attempt cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *attempt
	r.attempts = append(r.attempts, &stored)
	return nil
}

// List retrieves a page of attempts, newest first
func (r *attemptRepository) List(ctx context.Context, limit, offset int) ([]*domain.AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if offset < 0 {
		return nil, errors.New("offset must be non-negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.AttemptRecord, 0, min(limit, len(r.attempts)))
	for i := len(r.attempts) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		record := *r.attempts[i]
		result = append(result, &record)
	}
	return result, nil
}

// Count returns the total number of attempts
func (r *attemptRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts), nil
}
