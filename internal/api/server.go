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
	"errors"
	"strings"

	"peoplebot-go/internal/auth"
	"peoplebot-go/internal/bot"
	"peoplebot-go/internal/chain"
	"peoplebot-go/internal/provider"
	"peoplebot-go/internal/service"
	"peoplebot-go/internal/store"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const sessionCookie = "session"

// Server wires the HTTP front end. Handlers only parse transport input
// into command dispatcher calls; none of them talk to the provider
// directly.
type Server struct {
	svc          *service.Service
	store        store.RecordStore
	tokens       *auth.TokenIssuer
	chain        *chain.Client
	registry     *bot.Registry
	commands     *bot.Handler
	cookieSecure bool
}

type Deps struct {
	Service      *service.Service
	Store        store.RecordStore
	Tokens       *auth.TokenIssuer
	Chain        *chain.Client
	Registry     *bot.Registry
	Commands     *bot.Handler
	CookieSecure bool
}

func NewServer(deps Deps) *Server {
	return &Server{
		svc:          deps.Service,
		store:        deps.Store,
		tokens:       deps.Tokens,
		chain:        deps.Chain,
		registry:     deps.Registry,
		commands:     deps.Commands,
		cookieSecure: deps.CookieSecure,
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New()

	// Chat gateway; must not inherit the API auth middleware because the
	// token travels in the query string on the upgrade request.
	ws := app.Group("/ws")
	ws.Use("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/chat", websocket.New(s.chatEndpoint))

	api := app.Group("/api")

	api.Get("/health", s.Health)
	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	api.Use(s.Protected())

	api.Post("/logout", s.Logout)
	api.Get("/wallets", s.ListWallets)
	api.Post("/wallets", s.ImportWallet)
	api.Delete("/wallets/:id", s.DeleteWallet)
	api.Post("/trade", s.ExecuteTrade)
	api.Get("/transactions/:walletId", s.ListTransactions)
	api.Get("/bots", s.GetBots)
	api.Post("/bots", s.CreateBot)
	api.Get("/balance/:address", s.GetBalance)

	return app
}

// Protected verifies the session token from the Authorization header or
// the session cookie and stores the claims in the request context.
func (s *Server) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Cookies(sessionCookie)
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in."})
		}

		claims, err := s.tokens.Validate(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("userID", claims.UserId)
		c.Locals("username", claims.Username)
		return c.Next()
	}
}

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// statusFor maps core errors onto HTTP status codes: provider failures
// are distinguished from validation failures for every caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, provider.ErrTradeRejected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, provider.ErrUnavailable), errors.Is(err, provider.ErrProtocol):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
