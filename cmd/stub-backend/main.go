// Command stub-backend serves the expense dashboard REST API from memory,
// seeded with demo accounts, for local development and demos.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/expense-dashboard/internal/config"
	stub "github.com/garyjia/expense-dashboard/internal/interfaces/http"
	"github.com/garyjia/expense-dashboard/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/expensedash.yaml", "path to the config file")
	seed := flag.Bool("seed", true, "create the demo accounts and catalog")
	pageSize := flag.Int("grouped-page-size", 0, "dates per grouped-by-date page (0 keeps the default)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
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

	store := stub.NewStore()
	if *seed {
		if err := store.SeedDemo(); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Info("Seeded demo accounts", zap.Strings("usernames", []string{"admin", "user"}))
	}

	serverCfg := stub.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	if *pageSize > 0 {
		serverCfg.GroupedPageSize = *pageSize
	}

	server := stub.NewServer(serverCfg, store, stub.NewTokenIssuer(cfg.Server.JWTSecret, cfg.Server.TokenTTL), logger)

	// Serve until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("Stub backend stopped with error", zap.Error(err))
		stop()
		os.Exit(1)
	}

	logger.Info("Stub backend exited")
}
