// The backend command runs the claims analysis service: validation,
// eligibility, recommendations and GPT document analysis backed by
// SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/config"
	"github.com/medclaims/claims-dashboard/internal/document"
	"github.com/medclaims/claims-dashboard/internal/eligibility"
	"github.com/medclaims/claims-dashboard/internal/interfaces/backend"
	"github.com/medclaims/claims-dashboard/internal/recommend"
	"github.com/medclaims/claims-dashboard/internal/repository"
	"github.com/medclaims/claims-dashboard/internal/validator"
	"github.com/medclaims/claims-dashboard/pkg/database"
	"github.com/medclaims/claims-dashboard/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBackend(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
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

	logger.Info("Starting claims analysis backend",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Backend.Port),
		zap.String("model", cfg.OpenAI.Model))

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

	if err := database.NewMigrator(db, logger).RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	policies := repository.NewPolicyRepository(db.DB, logger)

	server := backend.NewServer(
		backend.ServerConfig{
			Host:         cfg.Backend.Host,
			Port:         cfg.Backend.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			UploadDir:    cfg.Backend.UploadDir,
		},
		validator.New(logger),
		eligibility.NewChecker(policies, logger),
		recommend.NewEngine(logger),
		document.NewProcessor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger),
		repository.NewClaimRepository(db.DB, logger),
		policies,
		repository.NewReviewRepository(db.DB, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Claims analysis backend stopped")
}
