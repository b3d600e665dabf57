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

package api

import (
	"peoplebot-go/internal/models"
	"peoplebot-go/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExecuteTrade submits an order through the command dispatcher.
func (s *Server) ExecuteTrade(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)

	req := new(models.TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	tradeId, err := s.svc.ExecuteTrade(c.Context(), service.ExecuteTradeParams{
		UserId:          userId,
		WalletId:        req.WalletId,
		Pair:            req.Pair,
		Type:            req.Type,
		AmountOrPercent: req.AmountOrPercent,
		MaxSlippage:     req.MaxSlippage,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.TradeResponse{TradeId: tradeId})
}

// ListTransactions returns the trade history for one wallet.
func (s *Server) ListTransactions(c *fiber.Ctx) error {
	walletId := c.Params("walletId")

	transactions, err := s.svc.ListTransactions(c.Context(), walletId)
	if err != nil {
		return errorJSON(c, err)
	}

	records := make([]models.TransactionRecord, len(transactions))
	for i, tx := range transactions {
		records[i] = models.TransactionRecord{
			TradeId:  tx.TradeId,
			WalletId: tx.WalletId,
			Pair:     tx.Pair,
			Type:     tx.Type,
		}
		if tx.TxPriceUsd.Valid {
			records[i].TxPriceUsd = tx.TxPriceUsd.Decimal.String()
		}
		if tx.SwapHash.Valid {
			records[i].SwapHash = tx.SwapHash.String
		}
		if tx.State.Valid {
			records[i].State = tx.State.String
		}
	}

	return c.JSON(records)
}
