package main

import (
	"context"
	"flag"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"sgfgrove/internal/bootstrap"
	sgfUseCase "sgfgrove/internal/usecase/sgf"
	sgfRPC "sgfgrove/microservices/proto"
	"sgfgrove/microservices/usecase"
)

func main() {
	cfgPath := flag.String("config", ".env", "path to the configuration file")
	flag.Parse()

	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Errorw("Cannot listen port", "port", cfg.GrpcPort, zap.Error(err))
		return
	}

	server := grpc.NewServer()
	converter := sgfUseCase.NewSgfUseCase(logger, cfg.CollapseOnParse)
	sgfRPC.RegisterSgfServiceServer(server, usecase.NewSgfUseCase(converter))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("Starting sgf service at :%s", cfg.GrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Errorw("Serve failed", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
