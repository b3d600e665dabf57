package api

import (
	"encoding/json"
	"errors"

	"peoplebot-go/internal/chain"
	"peoplebot-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetBots lists the user's trading bots.
func (s *Server) GetBots(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)

	bots, err := s.store.GetBotsByUser(c.Context(), userId)
	if err != nil {
		zap.L().Error("Failed to list bots", zap.String("user_id", userId), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list bots"})
	}
	if bots == nil {
		bots = []models.Bot{}
	}

	return c.JSON(bots)
}

// CreateBot stores a new trading bot definition.
func (s *Server) CreateBot(c *fiber.Ctx) error {
	userId := c.Locals("userID").(string)

	req := new(models.CreateBotRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Bot name cannot be empty"})
	}

	configJSON := "{}"
	if req.Config != nil {
		raw, err := json.Marshal(req.Config)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid bot config"})
		}
		configJSON = string(raw)
	}

	bot, err := s.store.CreateBot(c.Context(), uuid.New().String(), userId, req.Name, configJSON)
	if err != nil {
		zap.L().Error("Failed to create bot", zap.String("user_id", userId), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create bot"})
	}

	return c.Status(fiber.StatusCreated).JSON(bot)
}

// GetBalance looks up the ether balance of an address via the blockchain
// RPC endpoint.
func (s *Server) GetBalance(c *fiber.Ctx) error {
	if s.chain == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Balance lookups are not configured"})
	}

	address := c.Params("address")
	balance, err := s.chain.Balance(c.Context(), address)
	if err != nil {
		if errors.Is(err, chain.ErrInvalidAddress) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(models.BalanceResponse{
		Address: address,
		Balance: balance.String(),
	})
}
