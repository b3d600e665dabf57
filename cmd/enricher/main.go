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
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peoplebot-go/internal/common"
	"peoplebot-go/internal/config"
	"peoplebot-go/internal/listener"
	"peoplebot-go/internal/service"

	"go.uber.org/zap"
)

// Standalone enrichment poller. Useful when the API server is down but
// pending trades should still pick up their settlement detail.
func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	pollingInterval := flag.Duration("interval", 0, "Override the polling interval (e.g. 10s)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	if *pollingInterval > 0 {
		cfg.Enricher.PollingInterval = *pollingInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting standalone enrichment poller")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	svc := service.New(services.DbService, services.ProviderService, services.ProviderService, cfg.Provider)

	enricher := listener.NewEnrichmentListener(svc, cfg.Enricher)
	enricher.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))

	enricher.Stop()

	// Give in-flight provider calls a moment to wind down.
	time.Sleep(500 * time.Millisecond)
}
