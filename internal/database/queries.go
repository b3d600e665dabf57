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

const (
	// User queries
	queryInsertUser = `
		INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, username, password_hash, chat_id, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, username, password_hash, chat_id, created_at, updated_at
		FROM users
		WHERE username = ?`

	querySetUserChatId = `
		UPDATE users SET chat_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	// Wallet snapshot queries
	queryDeleteWalletSnapshot = `
		DELETE FROM wallets WHERE user_id = ?`

	queryInsertWallet = `
		INSERT INTO wallets (user_id, position, wallet_id, name, type, address)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetWalletSnapshot = `
		SELECT wallet_id, name, type, address
		FROM wallets
		WHERE user_id = ?
		ORDER BY position`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (trade_id, wallet_id, pair, type)
		VALUES (?, ?, ?, ?)`

	queryUpdateTradeDetail = `
		UPDATE transactions
		SET tx_price_usd = ?, swap_hash = ?, state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE trade_id = ?`

	queryGetTransactionByTradeId = `
		SELECT trade_id, wallet_id, pair, type, tx_price_usd, swap_hash, state, created_at, updated_at
		FROM transactions
		WHERE trade_id = ?`

	queryGetTransactionsByWallet = `
		SELECT trade_id, wallet_id, pair, type, tx_price_usd, swap_hash, state, created_at, updated_at
		FROM transactions
		WHERE wallet_id = ?
		ORDER BY created_at`

	queryGetPendingTransactions = `
		SELECT trade_id, wallet_id, pair, type, tx_price_usd, swap_hash, state, created_at, updated_at
		FROM transactions
		WHERE state IS NULL
		ORDER BY created_at
		LIMIT ?`

	// Bot queries
	queryInsertBot = `
		INSERT INTO bots (id, user_id, name, config) VALUES (?, ?, ?, ?)`

	queryGetBotById = `
		SELECT id, user_id, name, config, created_at
		FROM bots
		WHERE id = ?`

	queryGetBotsByUser = `
		SELECT id, user_id, name, config, created_at
		FROM bots
		WHERE user_id = ?
		ORDER BY created_at`
)
