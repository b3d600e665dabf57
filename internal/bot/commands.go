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

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/provider"
	"peoplebot-go/internal/service"
	"peoplebot-go/internal/store"
)

const helpText = `Commands:
/wallets - list your wallets
/import <key> <name> - import a wallet
/delete <id> - delete a wallet
/trade <walletId> <pair> <type> <amount> - submit a buy/sell order
/transactions <walletId> - list trades for a wallet`

// Handler turns chat command text into command dispatcher calls. It
// holds no provider logic of its own: every command maps 1:1 onto the
// same operation set the HTTP front end uses.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// HandleCommand parses one chat message and returns the reply text.
func (h *Handler) HandleCommand(ctx context.Context, userId, text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/wallets":
		return h.listWallets(ctx, userId)
	case "/import":
		if len(fields) != 3 {
			return "Usage: /import <key> <name>"
		}
		return h.importWallet(ctx, userId, fields[1], fields[2])
	case "/delete":
		if len(fields) != 2 {
			return "Usage: /delete <id>"
		}
		return h.deleteWallet(ctx, userId, fields[1])
	case "/trade":
		if len(fields) != 5 {
			return "Usage: /trade <walletId> <pair> <type> <amount>"
		}
		return h.trade(ctx, userId, fields[1], fields[2], fields[3], fields[4])
	case "/transactions":
		if len(fields) != 2 {
			return "Usage: /transactions <walletId>"
		}
		return h.listTransactions(ctx, fields[1])
	default:
		return helpText
	}
}

func (h *Handler) listWallets(ctx context.Context, userId string) string {
	wallets, err := h.svc.ListWallets(ctx, userId)
	if err != nil {
		return errorReply(err)
	}
	if len(wallets) == 0 {
		return "No wallets yet. Use /import to add one."
	}

	var b strings.Builder
	b.WriteString("Your wallets:\n")
	for _, w := range wallets {
		fmt.Fprintf(&b, "%s | %s | %s\n", w.Id, w.Name, w.Address)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *Handler) importWallet(ctx context.Context, userId, key, name string) string {
	wallets, err := h.svc.ImportWallet(ctx, userId, key, name)
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Wallet imported. You now have %d wallet(s).", len(wallets))
}

func (h *Handler) deleteWallet(ctx context.Context, userId, walletId string) string {
	wallets, err := h.svc.DeleteWallet(ctx, userId, walletId)
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Wallet %s deleted. %d wallet(s) remaining.", walletId, len(wallets))
}

func (h *Handler) trade(ctx context.Context, userId, walletId, pair, tradeType, amount string) string {
	tradeId, err := h.svc.ExecuteTrade(ctx, service.ExecuteTradeParams{
		UserId:          userId,
		WalletId:        walletId,
		Pair:            pair,
		Type:            tradeType,
		AmountOrPercent: amount,
		MaxSlippage:     1,
		Notify:          true,
	})
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Order accepted, trade id %s. Use /transactions %s to check settlement.", tradeId, walletId)
}

func (h *Handler) listTransactions(ctx context.Context, walletId string) string {
	transactions, err := h.svc.ListTransactions(ctx, walletId)
	if err != nil {
		return errorReply(err)
	}
	if len(transactions) == 0 {
		return "No trades for this wallet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trades for %s:\n", walletId)
	for _, tx := range transactions {
		b.WriteString(formatTransaction(tx))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTransaction(tx models.Transaction) string {
	line := fmt.Sprintf("%s | %s %s", tx.TradeId, tx.Type, tx.Pair)
	if tx.Enriched() {
		line += " | " + tx.State.String
		if tx.TxPriceUsd.Valid {
			line += " @ $" + tx.TxPriceUsd.Decimal.String()
		}
	} else {
		line += " | pending"
	}
	return line
}

// errorReply renders a short failure message, distinguishing provider
// failure from validation failure.
func errorReply(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return "Invalid request: " + err.Error()
	case errors.Is(err, provider.ErrTradeRejected):
		return "The provider rejected this trade."
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return "Not found."
	case errors.Is(err, provider.ErrUnavailable), errors.Is(err, provider.ErrProtocol):
		return "The trading service is currently unreachable. Try again later."
	default:
		return "Something went wrong. Try again later."
	}
}
