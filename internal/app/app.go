package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/fundsflow-backend/internal/adapter/grpc"
	"github.com/simaogato/fundsflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/fundsflow-backend/internal/config"
	"github.com/simaogato/fundsflow-backend/internal/domain"
	"github.com/simaogato/fundsflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundsflow-backend/internal/usecase/seeder"
	"github.com/simaogato/fundsflow-backend/internal/usecase/simulator"
	"github.com/simaogato/fundsflow-backend/internal/usecase/transfer"
)

// App holds the wired services shared by the binaries
type App struct {
	Account          *domain.Account
	Orchestrator     *transfer.Orchestrator
	DashboardService *dashboard.DashboardService

	config *config.Config
	logger logrus.FieldLogger
}

// New wires repositories, services and the simulator, then opens the account.
// A nil sleeper uses real time.
func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, sleeper simulator.Sleeper) (*App, error) {
	if sleeper == nil {
		sleeper = simulator.RealSleeper
	}

	// 1. Initialize Repositories (in memory)
	accountRepo := memory.NewAccountRepository()
	attemptRepo := memory.NewAttemptRepository()

	// 2. Open the account
	account, err := seeder.NewAccountSeeder(accountRepo, cfg.InitialBalance).Seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed account: %w", err)
	}

	// 3. Initialize Services (Use Cases)
	sim := simulator.NewSimulator(cfg.Simulation(), cfg.Roller(), sleeper, logger)
	orchestrator := transfer.NewOrchestrator(accountRepo, attemptRepo, sim, cfg.MaxAmount, logger)
	dashboardService := dashboard.NewDashboardService(accountRepo, attemptRepo)

	logger.WithFields(logrus.Fields{
		"account_id": account.ID.String(),
		"balance":    account.Balance.StringFixed(2),
	}).Info("account opened")

	return &App{
		Account:          account,
		Orchestrator:     orchestrator,
		DashboardService: dashboardService,
		config:           cfg,
		logger:           logger,
	}, nil
}

// NewGRPCServer builds a gRPC server with auth and logging interceptors and
// the transfer service registered
func (a *App) NewGRPCServer(opts ...grpclib.ServerOption) *grpclib.Server {
	opts = append(opts,
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(a.logger),
			grpcadapter.AuthInterceptor(a.config.APIToken),
		),
		grpclib.StreamInterceptor(grpcadapter.AuthStreamInterceptor(a.config.APIToken)),
	)
	server := grpclib.NewServer(opts...)

	grpcadapter.RegisterTransferServiceServer(server, grpcadapter.NewServer(a.Orchestrator, a.DashboardService, a.logger))
	return server
}
