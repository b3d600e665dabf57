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
	"errors"
	"time"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/provider"
	"peoplebot-go/internal/store"
)

// ErrInvalidArgument is returned for caller mistakes (bad pair, bad
// trade type, empty fields) before any provider call is made.
var ErrInvalidArgument = errors.New("invalid argument")

// WalletAPI is the slice of the provider used for wallet reconciliation.
type WalletAPI interface {
	ListWallets(ctx context.Context, accountType string) ([]models.ProviderWallet, error)
	ImportWallet(ctx context.Context, accountType, privateKey string) error
	DeleteWallet(ctx context.Context, walletId string) error
}

// TradeAPI is the slice of the provider used for order execution.
type TradeAPI interface {
	SubmitOrder(ctx context.Context, order models.OrderRequest) (string, error)
	GetOrder(ctx context.Context, orderId string) (*models.OrderDetail, error)
}

// Compile-time checks: the provider client serves both roles.
var (
	_ WalletAPI = (*provider.Client)(nil)
	_ TradeAPI  = (*provider.Client)(nil)
)

// Notifier delivers an outbound settlement notification for a trade that
// originated from a chat session. Delivery is best effort.
type Notifier interface {
	TradeSettled(userId string, tx models.Transaction)
}

// Service is the command dispatcher: the single fixed operation set
// (ListWallets, ImportWallet, DeleteWallet, ExecuteTrade,
// ListTransactions) that every front end calls. Front ends parse their
// transport's input into these operations and nothing else, so no front
// end can drift from another in behavior.
type Service struct {
	store    store.RecordStore
	wallets  WalletAPI
	trades   TradeAPI
	notifier Notifier

	chain         string // chain identifier for submitted orders
	accountType   string // provider account type the snapshot mirrors
	pairAllowlist map[string]struct{}
	enrichTimeout time.Duration
}

type Option func(*Service)

// WithNotifier installs the outbound notification sink for
// chat-originated trades.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithPairAllowlist restricts ExecuteTrade to the given trading pairs.
// An empty list means no restriction.
func WithPairAllowlist(pairs []string) Option {
	return func(s *Service) {
		if len(pairs) == 0 {
			return
		}
		s.pairAllowlist = make(map[string]struct{}, len(pairs))
		for _, p := range pairs {
			s.pairAllowlist[p] = struct{}{}
		}
	}
}

func New(recordStore store.RecordStore, wallets WalletAPI, trades TradeAPI, cfg models.ProviderConfig, opts ...Option) *Service {
	s := &Service{
		store:         recordStore,
		wallets:       wallets,
		trades:        trades,
		chain:         cfg.Chain,
		accountType:   cfg.AccountType,
		enrichTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
