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

package service

import (
	"context"
	"fmt"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/store"

	"go.uber.org/zap"
)

// ExecuteTradeParams carries one trade submission.
type ExecuteTradeParams struct {
	UserId          string
	WalletId        string
	Pair            string
	Type            string // "buy" or "sell"
	AmountOrPercent string
	MaxSlippage     float64
	// Notify requests an outbound settlement notification once
	// enrichment completes (set by the chat front end).
	Notify bool
}

func (p ExecuteTradeParams) validate() error {
	if p.WalletId == "" {
		return fmt.Errorf("%w: wallet id is required", ErrInvalidArgument)
	}
	if p.Pair == "" {
		return fmt.Errorf("%w: pair is required", ErrInvalidArgument)
	}
	if p.Type != "buy" && p.Type != "sell" {
		return fmt.Errorf("%w: trade type must be buy or sell, got %q", ErrInvalidArgument, p.Type)
	}
	if p.AmountOrPercent == "" {
		return fmt.Errorf("%w: amount is required", ErrInvalidArgument)
	}
	return nil
}

// ExecuteTrade submits the order, persists its initial record, and
// triggers asynchronous settlement enrichment.
//
// Ordering is the core design decision here: the pending record is
// durably persisted before enrichment is even attempted, and enrichment
// failure never fails the overall operation. Submission success and
// detail availability are decoupled because provider-side settlement is
// asynchronous and may not be ready at submission time.
func (s *Service) ExecuteTrade(ctx context.Context, params ExecuteTradeParams) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}
	if s.pairAllowlist != nil {
		if _, ok := s.pairAllowlist[params.Pair]; !ok {
			return "", fmt.Errorf("%w: pair %q is not supported", ErrInvalidArgument, params.Pair)
		}
	}

	// The five trade parameters go to the provider verbatim.
	tradeId, err := s.trades.SubmitOrder(ctx, models.OrderRequest{
		Chain:           s.chain,
		WalletId:        params.WalletId,
		Pair:            params.Pair,
		Type:            params.Type,
		AmountOrPercent: params.AmountOrPercent,
		MaxSlippage:     params.MaxSlippage,
	})
	if err != nil {
		// Rejected or unreachable: no local writes.
		return "", err
	}

	// Exactly one pending record per accepted submission.
	err = s.store.CreateTransaction(ctx, models.Transaction{
		TradeId:  tradeId,
		WalletId: params.WalletId,
		Pair:     params.Pair,
		Type:     params.Type,
	})
	if err != nil {
		return "", fmt.Errorf("order %s accepted but record not persisted: %w", tradeId, err)
	}

	// Detached best-effort enrichment. Runs on its own context so it can
	// neither be cancelled by the already-answered request nor block it.
	go s.enrichDetached(tradeId, params)

	return tradeId, nil
}

func (s *Service) enrichDetached(tradeId string, params ExecuteTradeParams) {
	ctx, cancel := context.WithTimeout(context.Background(), s.enrichTimeout)
	defer cancel()

	if err := s.EnrichTransaction(ctx, tradeId); err != nil {
		// Never surfaced: the trade is already accepted by the provider,
		// the record simply stays unenriched until a later retry.
		zap.L().Warn("Enrichment skipped",
			zap.String("trade_id", tradeId),
			zap.Error(err))
		return
	}

	if params.Notify && s.notifier != nil {
		if tx, err := s.store.GetTransactionByTradeId(ctx, tradeId); err == nil && tx.Enriched() {
			s.notifier.TradeSettled(params.UserId, *tx)
		}
	}
}

// EnrichTransaction queries the provider for order detail and, if found,
// updates the matching record's settlement fields in place. Idempotent:
// the update is keyed on the unique trade id and creates no duplicate,
// and a provider with no detail yet makes the call a no-op.
func (s *Service) EnrichTransaction(ctx context.Context, tradeId string) error {
	detail, err := s.trades.GetOrder(ctx, tradeId)
	if err != nil {
		return fmt.Errorf("order detail lookup failed: %w", err)
	}
	if detail == nil || !detail.Settled() {
		zap.L().Debug("No settlement detail yet", zap.String("trade_id", tradeId))
		return nil
	}

	err = s.store.UpdateTradeDetail(ctx, store.TradeDetailParams{
		TradeId:    tradeId,
		TxPriceUsd: detail.TxPriceUsd,
		SwapHash:   detail.SwapHash,
		State:      detail.State,
	})
	if err != nil {
		return fmt.Errorf("unable to apply settlement detail: %w", err)
	}

	return nil
}

// ListTransactions is a plain filtered read of the transaction store.
// It does not re-enrich on read; enrichment is triggered at submission
// time and by the periodic listener.
func (s *Service) ListTransactions(ctx context.Context, walletId string) ([]models.Transaction, error) {
	if walletId == "" {
		return nil, fmt.Errorf("%w: wallet id is required", ErrInvalidArgument)
	}
	return s.store.GetTransactionsByWallet(ctx, walletId)
}

// PendingTransactions exposes unenriched trades for the periodic
// enrichment listener.
func (s *Service) PendingTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	return s.store.GetPendingTransactions(ctx, limit)
}

// TransactionByTradeId returns a single trade record.
func (s *Service) TransactionByTradeId(ctx context.Context, tradeId string) (*models.Transaction, error) {
	return s.store.GetTransactionByTradeId(ctx, tradeId)
}
