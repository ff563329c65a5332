package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"

	"github.com/simaogato/fundsflow-backend/internal/app"
	"github.com/simaogato/fundsflow-backend/internal/config"
)

func main() {
	// 1. Load configuration
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	// 2. Wire services and open the account
	application, err := app.New(context.Background(), cfg, logger, nil)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}

	// 3. Start gRPC Server
	grpcServer := application.NewGRPCServer()

	lis, err := net.Listen("tcp", cfg.GrpcAddr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", cfg.GrpcAddr, err)
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.GrpcAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server.
// A transfer in flight settles before GracefulStop returns.
func waitForShutdown(grpcServer *grpclib.Server, logger logrus.FieldLogger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Infof("Received signal: %v. Shutting down gracefully...", sig)

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
