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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

// ReplaceWalletSnapshot overwrites the user's cached wallet list inside a
// single database transaction, so a failed refresh never leaves a partial
// snapshot behind.
func (s *Service) ReplaceWalletSnapshot(ctx context.Context, userId string, wallets []models.Wallet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin snapshot transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		// No-op when already committed.
		_ = tx.Rollback()
	}(tx)

	if _, err := tx.ExecContext(ctx, queryDeleteWalletSnapshot, userId); err != nil {
		return fmt.Errorf("unable to clear wallet snapshot: %w", err)
	}

	for i, w := range wallets {
		if _, err := tx.ExecContext(ctx, queryInsertWallet, userId, i, w.Id, w.Name, w.Type, w.Address); err != nil {
			return fmt.Errorf("unable to insert wallet %s: %w", w.Id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit wallet snapshot: %w", err)
	}

	zap.L().Debug("Replaced wallet snapshot",
		zap.String("user_id", userId),
		zap.Int("count", len(wallets)))
	return nil
}

func (s *Service) GetWalletSnapshot(ctx context.Context, userId string) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, queryGetWalletSnapshot, userId)
	if err != nil {
		zap.L().Error("Failed to query wallet snapshot", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query wallet snapshot: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.Id, &w.Name, &w.Type, &w.Address); err != nil {
			return nil, fmt.Errorf("unable to scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}

	return wallets, nil
}
