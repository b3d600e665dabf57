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

package listener

import (
	"context"
	"sync"
	"time"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/service"

	"go.uber.org/zap"
)

// EnrichmentListener periodically retries settlement enrichment for
// trades still missing detail, so a trade whose provider-side settlement
// was not ready at submission time does not stay unenriched forever.
type EnrichmentListener struct {
	svc             *service.Service
	pollingInterval time.Duration
	cleanupInterval time.Duration
	maxPending      int

	// enrichedIds caches trade ids settled during this run so a poll
	// cycle does not re-query them before the store catches up.
	enrichedIds sync.Map

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewEnrichmentListener(svc *service.Service, cfg models.EnricherConfig) *EnrichmentListener {
	return &EnrichmentListener{
		svc:             svc,
		pollingInterval: cfg.PollingInterval,
		cleanupInterval: cfg.CleanupInterval,
		maxPending:      cfg.MaxPending,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start begins the enrichment polling loop.
func (l *EnrichmentListener) Start(ctx context.Context) {
	zap.L().Info("Starting enrichment listener",
		zap.Duration("polling_interval", l.pollingInterval),
		zap.Int("max_pending", l.maxPending))

	go l.pollLoop(ctx)
	go l.cleanupLoop(ctx)
}

// Stop gracefully stops the listener.
func (l *EnrichmentListener) Stop() {
	zap.L().Info("Stopping enrichment listener")
	close(l.stopChan)
	<-l.doneChan
	zap.L().Info("Enrichment listener stopped")
}

func (l *EnrichmentListener) pollLoop(ctx context.Context) {
	defer close(l.doneChan)

	ticker := time.NewTicker(l.pollingInterval)
	defer ticker.Stop()

	l.pollPending(ctx)

	for {
		select {
		case <-ticker.C:
			l.pollPending(ctx)
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pollPending retries enrichment for every transaction still missing
// settlement detail. Failures are logged and retried on the next cycle.
func (l *EnrichmentListener) pollPending(ctx context.Context) {
	pending, err := l.svc.PendingTransactions(ctx, l.maxPending)
	if err != nil {
		zap.L().Error("Failed to load pending transactions", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	zap.L().Debug("Retrying enrichment", zap.Int("pending", len(pending)))

	var wg sync.WaitGroup
	for _, tx := range pending {
		if _, done := l.enrichedIds.Load(tx.TradeId); done {
			continue
		}

		wg.Add(1)
		go func(tradeId string) {
			defer wg.Done()

			if err := l.svc.EnrichTransaction(ctx, tradeId); err != nil {
				zap.L().Warn("Enrichment retry failed",
					zap.String("trade_id", tradeId),
					zap.Error(err))
				return
			}

			if tx, err := l.svc.TransactionByTradeId(ctx, tradeId); err == nil && tx.Enriched() {
				l.enrichedIds.Store(tradeId, time.Now())
			}
		}(tx.TradeId)
	}
	wg.Wait()
}

// cleanupLoop evicts settled ids from the in-memory cache so it cannot
// grow without bound.
func (l *EnrichmentListener) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cleanupInterval)
			l.enrichedIds.Range(func(key, value any) bool {
				if settledAt, ok := value.(time.Time); ok && settledAt.Before(cutoff) {
					l.enrichedIds.Delete(key)
				}
				return true
			})
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
