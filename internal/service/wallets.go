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
	"strings"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

// ListWallets returns the user's wallet snapshot, freshly rebuilt from
// the provider. This is deliberately not a pure read: the full list is
// fetched, mapped, and persisted over the previous snapshot on every
// call, so the local copy can never drift from provider-side truth.
func (s *Service) ListWallets(ctx context.Context, userId string) ([]models.Wallet, error) {
	return s.refreshWallets(ctx, userId)
}

// ImportWallet hands the key material to the provider and then rebuilds
// the snapshot; the provider is the only source of the newly assigned
// wallet id. The key is never persisted or logged locally.
func (s *Service) ImportWallet(ctx context.Context, userId, privateKey, name string) ([]models.Wallet, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, fmt.Errorf("%w: private key is required", ErrInvalidArgument)
	}

	if err := s.wallets.ImportWallet(ctx, s.accountType, privateKey); err != nil {
		return nil, err
	}

	zap.L().Info("Wallet import accepted",
		zap.String("user_id", userId),
		zap.String("display_name", name))

	return s.refreshWallets(ctx, userId)
}

// DeleteWallet issues the delete to the provider first and only then
// rebuilds the snapshot. A provider failure aborts the operation with
// the local snapshot untouched; nothing is edited speculatively.
func (s *Service) DeleteWallet(ctx context.Context, userId, walletId string) ([]models.Wallet, error) {
	if walletId == "" {
		return nil, fmt.Errorf("%w: wallet id is required", ErrInvalidArgument)
	}

	if err := s.wallets.DeleteWallet(ctx, walletId); err != nil {
		return nil, err
	}

	return s.refreshWallets(ctx, userId)
}

// refreshWallets synchronizes the authoritative wallet list from the
// provider into the user's local snapshot: full overwrite, no merge.
func (s *Service) refreshWallets(ctx context.Context, userId string) ([]models.Wallet, error) {
	providerWallets, err := s.wallets.ListWallets(ctx, s.accountType)
	if err != nil {
		return nil, err
	}

	wallets := make([]models.Wallet, len(providerWallets))
	for i, pw := range providerWallets {
		wallets[i] = models.Wallet{
			Id:      pw.Id,
			Name:    walletDisplayName(pw),
			Type:    pw.Type,
			Address: pw.Address,
		}
	}

	if err := s.store.ReplaceWalletSnapshot(ctx, userId, wallets); err != nil {
		return nil, fmt.Errorf("unable to persist wallet snapshot: %w", err)
	}

	return wallets, nil
}

// walletDisplayName applies the default-name rule: when the provider
// supplies no name, derive one from the first characters of the address.
func walletDisplayName(w models.ProviderWallet) string {
	if w.Name != "" {
		return w.Name
	}
	addr := w.Address
	if len(addr) > 6 {
		addr = addr[:6]
	}
	return "Wallet " + addr
}
