//go:build integration

package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/fundsflow-backend/internal/adapter/grpc"
	"github.com/simaogato/fundsflow-backend/internal/app"
	"github.com/simaogato/fundsflow-backend/internal/config"
	"github.com/simaogato/fundsflow-backend/internal/domain"
	"github.com/simaogato/fundsflow-backend/internal/usecase/simulator"
)

var (
	grpcClient *grpcadapter.TransferClient
	grpcConn   *grpc.ClientConn
	apiToken   string
)

// TestMain connects to GRPC_ADDRESS when set, otherwise it starts the full
// stack in process over bufconn with real failure rates and no delay
func TestMain(m *testing.M) {
	apiToken = os.Getenv("API_TOKEN")
	if apiToken == "" {
		apiToken = "dev-token"
	}

	var err error
	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		grpcConn, err = grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		grpcConn, err = startInProcess()
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = grpcadapter.NewTransferClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	os.Exit(code)
}

func startInProcess() (*grpc.ClientConn, error) {
	cfg := &config.Config{
		APIToken:       apiToken,
		LogLevel:       "warn",
		LogFormat:      "text",
		InitialBalance: decimal.NewFromInt(1000),
		MaxAmount:      decimal.NewFromInt(1000),
		ConfigSimulation: config.ConfigSimulation{
			BalanceCheckFailureRate: 0.20,
			DeductFailureRate:       0.15,
			ConfirmFailureRate:      0.10,
			RandomSeed:              42,
		},
	}
	logger := cfg.NewLogger()
	logger.SetLevel(logrus.WarnLevel)

	application, err := app.New(context.Background(), cfg, logger, simulator.SleeperFunc(func(time.Duration) {}))
	if err != nil {
		return nil, err
	}

	lis := bufconn.Listen(1024 * 1024)
	server := application.NewGRPCServer()
	go func() { _ = server.Serve(lis) }()

	return grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

// getAuthContext returns a context with authorization metadata
func getAuthContext() context.Context {
	md := metadata.New(map[string]string{
		"authorization": apiToken,
	})
	return metadata.NewOutgoingContext(context.Background(), md)
}

func balanceOf(t *testing.T, s *structpb.Struct) decimal.Decimal {
	t.Helper()
	balance, err := decimal.NewFromString(s.GetFields()["balance"].GetStringValue())
	require.NoError(t, err)
	return balance
}

func stepStatuses(s *structpb.Struct) []string {
	var out []string
	for _, v := range s.GetFields()["steps"].GetListValue().GetValues() {
		out = append(out, v.GetStructValue().GetFields()["status"].GetStringValue())
	}
	return out
}

// TestTransferFlow runs a series of transfers and checks that every attempt
// either moved exactly its amount or left the balance untouched
func TestTransferFlow(t *testing.T) {
	ctx := getAuthContext()

	before, err := grpcClient.GetOverview(ctx)
	require.NoError(t, err)
	initialBalance := balanceOf(t, before)
	initialAttempts := int(before.GetFields()["attempts"].GetNumberValue())

	amount := decimal.RequireFromString("1.25")
	expected := initialBalance
	succeeded := 0
	const runs = 20

	for i := 0; i < runs; i++ {
		resp, err := grpcClient.StartTransfer(ctx, amount.String())
		if status.Code(err) == codes.FailedPrecondition {
			t.Skip("account balance exhausted by earlier runs")
		}
		require.NoError(t, err, "attempt %d", i)

		fields := resp.GetFields()
		assert.False(t, fields["transfer_in_progress"].GetBoolValue())

		switch fields["status_kind"].GetStringValue() {
		case string(domain.StatusKindSuccess):
			succeeded++
			expected = expected.Sub(amount)
			assert.Equal(t, []string{"completed", "completed", "completed"}, stepStatuses(resp))
			assert.Equal(t, domain.MessageTransferSucceeded, fields["status_message"].GetStringValue())
			assert.Empty(t, fields["amount_input"].GetStringValue())
		case string(domain.StatusKindError):
			assert.Contains(t, stepStatuses(resp), "failed")
			assert.Contains(t, fields["status_message"].GetStringValue(), domain.MessageTransferFailed)
		default:
			t.Fatalf("unexpected status kind %q", fields["status_kind"].GetStringValue())
		}

		assert.True(t, balanceOf(t, resp).Equal(expected), "attempt %d: balance %s, want %s", i, balanceOf(t, resp), expected)
	}

	after, err := grpcClient.GetOverview(ctx)
	require.NoError(t, err)
	assert.True(t, balanceOf(t, after).Equal(expected))
	assert.Equal(t, float64(initialAttempts+runs), after.GetFields()["attempts"].GetNumberValue())

	page, err := grpcClient.ListAttempts(ctx, runs, 0)
	require.NoError(t, err)
	attempts := page.GetFields()["attempts"].GetListValue().GetValues()
	require.Len(t, attempts, runs)

	listedSucceeded := 0
	for _, v := range attempts {
		attempt := v.GetStructValue().GetFields()
		assert.Equal(t, "1.25", attempt["amount"].GetStringValue())
		if attempt["outcome"].GetStringValue() == string(domain.AttemptOutcomeSucceeded) {
			listedSucceeded++
		}
	}
	assert.Equal(t, succeeded, listedSucceeded)
}

// TestValidationErrors checks rejected input never starts a transfer
func TestValidationErrors(t *testing.T) {
	ctx := getAuthContext()

	before, err := grpcClient.GetOverview(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		amount string
		code   codes.Code
	}{
		{"Empty", "", codes.InvalidArgument},
		{"Not a number", "abc", codes.InvalidArgument},
		{"Zero", "0", codes.InvalidArgument},
		{"Over the limit", "1000.01", codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := grpcClient.StartTransfer(ctx, tt.amount)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	after, err := grpcClient.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.GetFields()["attempts"].GetNumberValue(), after.GetFields()["attempts"].GetNumberValue())
	assert.True(t, balanceOf(t, before).Equal(balanceOf(t, after)))
}

// TestWatchState checks a watcher sees the transfer start and settle
func TestWatchState(t *testing.T) {
	ctx, cancel := context.WithTimeout(getAuthContext(), 30*time.Second)
	defer cancel()

	stream, err := grpcClient.WatchState(ctx)
	require.NoError(t, err)

	initial, err := stream.Recv()
	require.NoError(t, err)
	assert.False(t, initial.GetFields()["transfer_in_progress"].GetBoolValue())

	done := make(chan error, 1)
	go func() {
		_, err := grpcClient.StartTransfer(getAuthContext(), "0.50")
		done <- err
	}()

	sawInProgress := false
	for {
		snapshot, err := stream.Recv()
		require.NoError(t, err)

		inProgress := snapshot.GetFields()["transfer_in_progress"].GetBoolValue()
		if inProgress {
			sawInProgress = true
			continue
		}
		if sawInProgress {
			kind := snapshot.GetFields()["status_kind"].GetStringValue()
			assert.Contains(t, []string{string(domain.StatusKindSuccess), string(domain.StatusKindError)}, kind)
			break
		}
	}

	require.NoError(t, <-done)
}

// TestUnauthenticated checks every RPC requires the token
func TestUnauthenticated(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "wrong-token")

	_, err := grpcClient.GetState(ctx)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = grpcClient.StartTransfer(ctx, "10")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
