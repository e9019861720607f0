package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/application/service"
	"github.com/hrops/traveldesk/internal/config"
	"github.com/hrops/traveldesk/internal/export"
	httpserver "github.com/hrops/traveldesk/internal/interfaces/http"
	"github.com/hrops/traveldesk/internal/repository"
	"github.com/hrops/traveldesk/internal/session"
	"github.com/hrops/traveldesk/internal/validation"
	"github.com/hrops/traveldesk/internal/worker"
	"github.com/hrops/traveldesk/pkg/database"
	"github.com/hrops/traveldesk/pkg/utils"
)

func main() {
	// Optional .env for local development; environment wins over file.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting travel desk service",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_path", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	appRepo := repository.NewApplicationRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRecordRepository(db.DB, logger)
	claimRepo := repository.NewClaimRepository(db.DB, logger)
	masterRepo := repository.NewMasterRepository(db.DB, logger)

	policy := validation.Policy{
		FlightLeadTimeDays: cfg.Policy.FlightLeadTimeDays,
		TrainLeadTimeDays:  cfg.Policy.TrainLeadTimeDays,
		CEOCostThreshold:   decimal.NewFromFloat(cfg.Policy.CEOCostThreshold),
		StrictLeadTime:     cfg.Policy.StrictLeadTime,
	}

	serviceLogger := &zapLoggerAdapter{logger: logger}
	appService := service.NewApplicationService(appRepo, approvalRepo, masterRepo, db, policy, serviceLogger)
	masterService := service.NewMasterDataService(masterRepo, serviceLogger)
	claimService := service.NewClaimService(appRepo, claimRepo, serviceLogger)

	sessions := session.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	statements := export.NewStatementWriter(cfg.Export.CompanyName, cfg.Export.OutputDir, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers := worker.NewManager(logger)
	if cfg.Worker.Enabled {
		workers.Register(worker.NewReminderWorker(worker.ReminderConfig{
			Interval:         cfg.Worker.ReminderInterval,
			PendingThreshold: cfg.Worker.PendingThreshold,
		}, appRepo, logger))
		if err := workers.StartAll(ctx); err != nil {
			logger.Fatal("Failed to start workers", zap.Error(err))
		}
		defer workers.StopAll()
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sessions, appService, masterService, claimService, statements, serviceLogger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

// zapLoggerAdapter adapts zap.Logger to the narrow Logger interfaces the
// service and HTTP layers declare.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toZapFields(keysAndValues...)...)
}

func toZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
