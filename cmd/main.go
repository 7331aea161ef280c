package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sgfgrove/internal/adapters"
	"sgfgrove/internal/bootstrap"
	recordDelivery "sgfgrove/internal/delivery/record"
	"sgfgrove/internal/metrics"
	ownMiddleware "sgfgrove/internal/middleware"
	"sgfgrove/internal/repository"
	recordUseCase "sgfgrove/internal/usecase/record"
	sgfUseCase "sgfgrove/internal/usecase/sgf"
)

type mainDeliveryHandler struct {
	record *recordDelivery.RecordHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	databaseAdapters, err := initDatabaseAdapters(ctx, logger, cfg)
	if err != nil {
		logger.Errorw("Failed to initialize database adapters", zap.Error(err))
		return
	}
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Server stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.record.Register(r)
	r.Handle("/metrics", metrics.Handler())
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (*dataBaseAdapters, error) {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		return nil, err
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		_ = mongoAdapter.Close(ctx)
		return nil, err
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}, nil
}

func initializeDeliveryHandlers(
	cfg *bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	store := repository.NewRecordStorage(cfg, log, databaseAdapters.mongoAdapter.Database, databaseAdapters.redisAdapter.GetClient())
	converter := sgfUseCase.NewSgfUseCase(log, cfg.CollapseOnParse)
	records := recordUseCase.NewRecordUseCase(store, converter, log)

	return &mainDeliveryHandler{
		record: recordDelivery.NewRecordHandler(log, records, converter),
	}
}
