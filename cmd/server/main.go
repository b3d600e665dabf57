/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"peoplebot-go/internal/api"
	"peoplebot-go/internal/auth"
	"peoplebot-go/internal/bot"
	"peoplebot-go/internal/common"
	"peoplebot-go/internal/config"
	"peoplebot-go/internal/listener"
	"peoplebot-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting peoplebot server")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	tokens, err := auth.NewTokenIssuer(cfg.Server.JWTSecret, cfg.Server.TokenExpiry)
	if err != nil {
		zap.L().Fatal("Failed to initialize token issuer", zap.Error(err))
	}

	pairs, err := common.LoadPairAllowlist(cfg.Server.PairsFile)
	if err != nil {
		zap.L().Fatal("Failed to load pair allowlist", zap.Error(err))
	}
	if len(pairs) > 0 {
		zap.L().Info("Trading pair allowlist active", zap.Int("pairs", len(pairs)))
	}

	registry := bot.NewRegistry()

	svc := service.New(
		services.DbService,
		services.ProviderService,
		services.ProviderService,
		cfg.Provider,
		service.WithNotifier(registry),
		service.WithPairAllowlist(pairs),
	)

	enricher := listener.NewEnrichmentListener(svc, cfg.Enricher)
	enricher.Start(ctx)
	defer enricher.Stop()

	server := api.NewServer(api.Deps{
		Service:      svc,
		Store:        services.DbService,
		Tokens:       tokens,
		Chain:        services.ChainService,
		Registry:     registry,
		Commands:     bot.NewHandler(svc),
		CookieSecure: cfg.Server.CookieSecure,
	})
	app := server.App()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
		if err := app.Shutdown(); err != nil {
			zap.L().Error("Server shutdown error", zap.Error(err))
		}
		cancel()
	}()

	zap.L().Info("Server listening", zap.String("addr", cfg.Server.Addr))
	if err := app.Listen(cfg.Server.Addr); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}
