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
	"time"

	"peoplebot-go/internal/auth"
	"peoplebot-go/internal/models"
	"peoplebot-go/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register handles user registration.
func (s *Server) Register(c *fiber.Ctx) error {
	req := new(models.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password cannot be empty"})
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.String("username", req.Username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	user, err := s.store.CreateUser(c.Context(), uuid.New().String(), req.Username, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
		}
		zap.L().Error("Failed to create user", zap.String("username", req.Username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully", "username": user.Username})
}

// Login authenticates a user and issues a session token, returned both
// in the body and as a session cookie.
func (s *Server) Login(c *fiber.Ctx) error {
	req := new(models.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	user, err := s.store.GetUserByUsername(c.Context(), req.Username)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Login failed"})
	}

	token, err := s.tokens.Generate(user.Id, user.Username)
	if err != nil {
		zap.L().Error("Failed to generate token", zap.String("username", user.Username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   s.cookieSecure,
		SameSite: "Lax",
	})

	return c.JSON(models.AuthResponse{
		Token:    token,
		Username: user.Username,
		IssuedAt: time.Now(),
	})
}

// Logout clears the session cookie. Tokens themselves expire on their own.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   s.cookieSecure,
		MaxAge:   -1,
	})
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
