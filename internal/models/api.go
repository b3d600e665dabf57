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

package models

import "time"

// RegisterRequest is the JSON body for user registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for user login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful register/login
type AuthResponse struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// ImportWalletRequest is the JSON body for importing a wallet.
// The key material is forwarded to the provider and never persisted.
type ImportWalletRequest struct {
	PrivateKey string `json:"privateKey"`
	Name       string `json:"name"`
}

// TradeRequest is the JSON body for submitting a trade
type TradeRequest struct {
	WalletId        string  `json:"walletId"`
	Pair            string  `json:"pair"`
	Type            string  `json:"type"`
	AmountOrPercent string  `json:"amountOrPercent"`
	MaxSlippage     float64 `json:"maxSlippage"`
}

// TradeResponse carries the provider-assigned trade id
type TradeResponse struct {
	TradeId string `json:"tradeId"`
}

// TransactionRecord is a transaction in API responses. Enrichment fields
// are omitted until settlement detail has been applied.
type TransactionRecord struct {
	TradeId    string `json:"tradeId"`
	WalletId   string `json:"walletId"`
	Pair       string `json:"pair"`
	Type       string `json:"type"`
	TxPriceUsd string `json:"txPriceUsd,omitempty"`
	SwapHash   string `json:"swapHash,omitempty"`
	State      string `json:"state,omitempty"`
}

// CreateBotRequest is the JSON body for creating a trading bot
type CreateBotRequest struct {
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

// BalanceResponse is the response for an address balance lookup
type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"` // ether, decimal string
}
