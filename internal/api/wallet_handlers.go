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

	"github.com/gofiber/fiber/v2"
)

// ListWallets returns the user's wallet snapshot. Note that this is a
// refresh-and-persist, not a pure read: the snapshot is rebuilt from the
// provider on every call.
func (s *Server) ListWallets(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)

	wallets, err := s.svc.ListWallets(c.Context(), userId)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(wallets)
}

// ImportWallet forwards key material to the provider and returns the
// refreshed snapshot.
func (s *Server) ImportWallet(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)

	req := new(models.ImportWalletRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	wallets, err := s.svc.ImportWallet(c.Context(), userId, req.PrivateKey, req.Name)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(wallets)
}

// DeleteWallet removes a wallet at the provider and returns the
// refreshed snapshot.
func (s *Server) DeleteWallet(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)
	walletId := c.Params("id")

	wallets, err := s.svc.DeleteWallet(c.Context(), userId, walletId)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(wallets)
}
