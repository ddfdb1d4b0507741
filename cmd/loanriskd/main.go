package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/infrastructure/config"
	"github.com/bibbank/loanrisk/internal/infrastructure/lock"
	"github.com/bibbank/loanrisk/internal/infrastructure/messaging"
	pgRepo "github.com/bibbank/loanrisk/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/loanrisk/internal/presentation/grpc"
	"github.com/bibbank/loanrisk/internal/presentation/rest"
	"github.com/bibbank/loanrisk/pkg/auth"
	pkgkafka "github.com/bibbank/loanrisk/pkg/kafka"
	"github.com/bibbank/loanrisk/pkg/observability"
	pkgpostgres "github.com/bibbank/loanrisk/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("loanrisk-service exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting loanrisk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.WithoutCancel(ctx)) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis for per-applicant locks.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	// Kafka.
	kafkaProducer, err := pkgkafka.NewProducer(pkgkafka.Config{
		ClientID: cfg.ServiceName,
		Brokers:  cfg.Kafka.Brokers,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = kafkaProducer.Close() }()

	// Wire infrastructure adapters.
	metrics := observability.NewMetrics("loanrisk")
	repo := pgRepo.NewApplicantRepo(pool)
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, messaging.BreakerSettings{}, logger)
	relay := messaging.NewOutboxRelay(pgRepo.NewOutboxRepo(pool), publisher, messaging.RelayConfig{
		Interval:  cfg.Kafka.OutboxInterval,
		BatchSize: cfg.Kafka.OutboxBatchSize,
	}, logger)
	locker := lock.NewRedisLocker(redisClient,
		lock.WithTTL(cfg.Redis.LockTTL),
		lock.WithWait(2*time.Second),
		lock.WithLogger(logger),
	)
	stateMachine := service.NewLoanStateMachine(service.NewRiskAssessmentEngine())
	workflow := usecase.NewApplicantWorkflow(repo, locker, metrics, logger)

	// Wire use cases.
	applyUC := usecase.NewApplyForLoanUseCase(workflow, stateMachine)
	assessUC := usecase.NewAssessRiskUseCase(workflow, stateMachine)
	reviewUC := usecase.NewReviewLoanApplicationUseCase(workflow, stateMachine)
	decisionUC := usecase.NewGetLoanDecisionUseCase(repo)

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// gRPC server.
	grpcHandler := grpcPresentation.NewLoanRiskHandler(applyUC, assessUC, reviewUC, decisionUC, repo, logger)
	grpcServer, err := grpcPresentation.NewServer(grpcHandler, jwtSvc, grpcPresentation.ServerOptions{
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	restHandler := rest.NewHandler(rest.UseCases{
		RegisterApplicant:     usecase.NewRegisterApplicantUseCase(workflow),
		SubmitProfile:         usecase.NewSubmitProfileUseCase(workflow),
		ApplyForLoan:          applyUC,
		AssessRisk:            assessUC,
		ReviewLoanApplication: reviewUC,
		SetCreditScore:        usecase.NewSetCreditScoreUseCase(workflow),
		SetFraudStatus:        usecase.NewSetFraudStatusUseCase(workflow),
		GetLoanDecision:       decisionUC,
		GetCreditScore:        usecase.NewGetCreditScoreUseCase(repo),
		GetFraudScore:         usecase.NewGetFraudScoreUseCase(repo),
		ListLoanApplications:  usecase.NewListLoanApplicationsUseCase(repo),
		ListRiskAssessments:   usecase.NewListRiskAssessmentsUseCase(repo),
		ListActiveLoans:       usecase.NewListActiveLoansUseCase(repo),
	}, logger)
	health := rest.NewHealthHandler(cfg.ServiceName, logger,
		rest.ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }},
		rest.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Handler:    restHandler,
			Health:     health,
			JWTService: jwtSvc,
			Resolver:   repo,
			Metrics:    metrics,
			RateLimit:  cfg.RateLimitRPS,
			Burst:      cfg.RateLimitBurst,
			Logger:     logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and the outbox relay; the first failure or a signal stops all.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return relay.Run(gctx) })

	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		grpcServer.GracefulStop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("loanrisk-service stopped")
	return nil
}

// newJWTService builds a validation-only JWT service: public key preferred,
// shared secret as fallback.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	if cfg.JWTPublicKey != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	} else {
		jwtCfg.Secret = cfg.JWTSecret
	}
	return auth.NewJWTService(jwtCfg)
}
