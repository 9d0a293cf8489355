// The server command runs the claims dashboard: an in-memory claims API
// that delegates document analysis to the backend service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/analysis"
	"github.com/medclaims/claims-dashboard/internal/claims"
	"github.com/medclaims/claims-dashboard/internal/config"
	httpiface "github.com/medclaims/claims-dashboard/internal/interfaces/http"
	"github.com/medclaims/claims-dashboard/internal/proxy"
	"github.com/medclaims/claims-dashboard/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
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

	logger.Info("Starting claims dashboard",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL))

	store := claims.NewStore(logger)
	store.Seed()

	server := httpiface.NewServer(
		httpiface.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		store,
		claims.NewFactory(store, logger),
		analysis.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger),
		proxy.NewForwarder(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger),
		claims.NewExporter(logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Claims dashboard stopped")
}
