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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"regexp"

	"peoplebot-go/internal/auth"
	"peoplebot-go/internal/common"
	"peoplebot-go/internal/config"
	"peoplebot-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,32}$`)

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters of letters, digits, dot, dash or underscore")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	usernameFlag := flag.String("username", "", "Username for the new account (required)")
	passwordFlag := flag.String("password", "", "Password for the new account (required)")
	flag.Parse()

	// Validate required flags
	if *usernameFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Both flags are required: --username and --password")
	}

	if err := validateUsername(*usernameFlag); err != nil {
		zap.L().Fatal("Invalid username", zap.Error(err))
	}

	if err := validatePassword(*passwordFlag); err != nil {
		zap.L().Fatal("Invalid password", zap.Error(err))
	}

	zap.L().Info("Starting user creation process", zap.String("username", *usernameFlag))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	// Initialize database only; the trading provider is not needed here
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	passwordHash, err := auth.HashPassword(*passwordFlag)
	if err != nil {
		zap.L().Fatal("Failed to hash password", zap.Error(err))
	}

	userId := uuid.New().String()

	user, err := dbService.CreateUser(ctx, userId, *usernameFlag, passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			zap.L().Fatal("User already exists with this username", zap.String("username", *usernameFlag))
		}
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("USER CREATED")
	fmt.Printf("ID:       %s\n", user.Id)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Println()

	zap.L().Info("User created successfully", zap.String("id", user.Id))
}
