package common

import (
	"context"
	"log"
	"strings"

	"peoplebot-go/internal/chain"
	"peoplebot-go/internal/database"
	"peoplebot-go/internal/models"
	"peoplebot-go/internal/provider"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

type Services struct {
	DbService       *database.Service
	ProviderService *provider.Client
	ChainService    *chain.Client
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Initializing provider client",
		zap.String("base_url", cfg.Provider.BaseURL),
		zap.String("chain", cfg.Provider.Chain))
	providerService, err := provider.NewClient(cfg.Provider)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	// The RPC endpoint is optional; balance lookups are disabled without it.
	var chainService *chain.Client
	if cfg.Chain.RPCEndpoint != "" {
		chainService, err = chain.NewClient(cfg.Chain.RPCEndpoint)
		if err != nil {
			dbService.Close()
			return nil, err
		}
	} else {
		zap.L().Info("No RPC endpoint configured, balance lookups disabled")
	}

	return &Services{
		DbService:       dbService,
		ProviderService: providerService,
		ChainService:    chainService,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service.
// Useful for local operations like adding a user.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	return database.NewService(ctx, cfg.Database)
}

func (cs *Services) Close() {
	if cs.ChainService != nil {
		cs.ChainService.Close()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
