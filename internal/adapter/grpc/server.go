package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/fundsflow-backend/internal/domain"
	"github.com/simaogato/fundsflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundsflow-backend/internal/usecase/transfer"
)

// MaxListLimit is the largest page ListAttempts returns
const MaxListLimit = 100

// Server implements the TransferService gRPC server
type Server struct {
	Orchestrator     *transfer.Orchestrator
	DashboardService *dashboard.DashboardService

	logger logrus.FieldLogger
}

var _ TransferServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	orchestrator *transfer.Orchestrator,
	dashboardService *dashboard.DashboardService,
	logger logrus.FieldLogger,
) *Server {
	return &Server{
		Orchestrator:     orchestrator,
		DashboardService: dashboardService,
		logger:           logger,
	}
}

// StartTransfer handles the StartTransfer RPC.
// The call returns once the attempt has settled.
func (s *Server) StartTransfer(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	// A started transfer runs to settlement even if the caller goes away
	snapshot, err := s.Orchestrator.Start(context.WithoutCancel(ctx), req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return snapshotToStruct(*snapshot)
}

// GetState handles the GetState RPC
func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.Orchestrator.State(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return snapshotToStruct(snapshot)
}

// WatchState handles the WatchState RPC.
// It sends the current snapshot, then every change until the client leaves.
func (s *Server) WatchState(_ *emptypb.Empty, stream WatchStateServer) error {
	ctx := stream.Context()

	// Subscribe before reading the current state so no change is missed
	updates, cancel := s.Orchestrator.Subscribe()
	defer cancel()

	current, err := s.Orchestrator.State(ctx)
	if err != nil {
		return mapError(err)
	}
	if err := sendSnapshot(stream, current); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-updates:
			if !ok {
				return nil
			}
			if err := sendSnapshot(stream, snapshot); err != nil {
				s.logger.WithError(err).Debug("watcher disconnected")
				return err
			}
		}
	}
}

// ListAttempts handles the ListAttempts RPC
func (s *Server) ListAttempts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	limitValue := fields["limit"].GetNumberValue()
	offsetValue := fields["offset"].GetNumberValue()

	// Validate limit (must be positive and bounded); NaN fails every comparison
	if !(limitValue >= 1) {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be positive")
	}
	if limitValue > MaxListLimit {
		return nil, status.Errorf(codes.InvalidArgument, "limit must not exceed %d", MaxListLimit)
	}

	// Validate offset (must be non-negative and fit an int32)
	if !(offsetValue >= 0) {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}
	if offsetValue > math.MaxInt32 {
		return nil, status.Errorf(codes.InvalidArgument, "offset is too large")
	}

	limit := int(limitValue)
	offset := int(offsetValue)

	// Get total count for accurate pagination
	totalCount, err := s.DashboardService.AttemptRepo.Count(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	attempts, err := s.DashboardService.AttemptRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]interface{}, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, attemptToMap(attempt))
	}

	return structpb.NewStruct(map[string]interface{}{
		"attempts":    items,
		"total_count": totalCount,
	})
}

// GetOverview handles the GetOverview RPC
func (s *Server) GetOverview(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.DashboardService.GetOverview(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	failuresByPhase := make(map[string]interface{}, len(domain.Phases))
	for _, phase := range domain.Phases {
		failuresByPhase[phase.String()] = result.FailuresByPhase[phase]
	}

	return structpb.NewStruct(map[string]interface{}{
		"balance":           result.Balance.StringFixed(2),
		"attempts":          result.Attempts,
		"succeeded":         result.Succeeded,
		"failed":            result.Failed,
		"failures_by_phase": failuresByPhase,
		"total_moved":       result.TotalMoved.StringFixed(2),
	})
}

func sendSnapshot(stream WatchStateServer, snapshot domain.Snapshot) error {
	msg, err := snapshotToStruct(snapshot)
	if err != nil {
		return err
	}
	return stream.Send(msg)
}

func snapshotToStruct(snapshot domain.Snapshot) (*structpb.Struct, error) {
	steps := make([]interface{}, 0, len(snapshot.Steps))
	for _, step := range snapshot.Steps {
		steps = append(steps, map[string]interface{}{
			"id":     int(step.ID),
			"label":  step.Label,
			"status": string(step.Status),
			"result": step.Result,
		})
	}

	msg, err := structpb.NewStruct(map[string]interface{}{
		"balance":              snapshot.Balance.StringFixed(2),
		"steps":                steps,
		"status_message":       snapshot.StatusMessage,
		"status_kind":          string(snapshot.StatusKind),
		"transfer_in_progress": snapshot.TransferInProgress,
		"amount_input":         snapshot.AmountInput,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode snapshot: %v", err)
	}
	return msg, nil
}

func attemptToMap(attempt *domain.AttemptRecord) map[string]interface{} {
	item := map[string]interface{}{
		"id":              attempt.ID.String(),
		"amount":          attempt.Amount.StringFixed(2),
		"outcome":         string(attempt.Outcome),
		"opening_balance": attempt.OpeningBalance.StringFixed(2),
		"closing_balance": attempt.ClosingBalance.StringFixed(2),
		"started_at":      attempt.StartedAt.UTC().Format(time.RFC3339Nano),
		"finished_at":     attempt.FinishedAt.UTC().Format(time.RFC3339Nano),
	}
	if attempt.Outcome == domain.AttemptOutcomeFailed {
		item["failed_phase"] = attempt.FailedPhase.String()
		item["error_kind"] = string(attempt.ErrorKind)
	}
	return item
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrTransferInProgress):
		return status.Errorf(codes.Aborted, "%s", errorMsg)
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
